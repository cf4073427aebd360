package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

// InMemoryEventDispatcher delivers events asynchronously from a buffered
// channel. Use it for events nobody has to wait on, such as delivery audit.
type InMemoryEventDispatcher struct {
	registry
	logger logger.Interface

	stateMu sync.Mutex
	running bool
	stopCh  chan struct{}
	eventCh chan DomainEvent
	wg      sync.WaitGroup
}

// NewInMemoryEventDispatcher creates a new in-memory event dispatcher
func NewInMemoryEventDispatcher(bufferSize int, logger logger.Interface) *InMemoryEventDispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}

	return &InMemoryEventDispatcher{
		registry: newRegistry(),
		logger:   logger,
		stopCh:   make(chan struct{}),
		eventCh:  make(chan DomainEvent, bufferSize),
	}
}

// Publish queues a single event
func (d *InMemoryEventDispatcher) Publish(event DomainEvent) error {
	d.stateMu.Lock()
	running := d.running
	d.stateMu.Unlock()
	if !running {
		return fmt.Errorf("event dispatcher is not running")
	}

	select {
	case d.eventCh <- event:
		return nil
	default:
		return fmt.Errorf("event channel is full")
	}
}

// Start starts the event dispatcher
func (d *InMemoryEventDispatcher) Start() error {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()

	if d.running {
		return fmt.Errorf("event dispatcher is already running")
	}

	d.running = true
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.processEvents()
	}()

	return nil
}

// Stop stops the dispatcher after draining queued events.
func (d *InMemoryEventDispatcher) Stop() error {
	d.stateMu.Lock()
	if !d.running {
		d.stateMu.Unlock()
		return fmt.Errorf("event dispatcher is not running")
	}
	d.running = false
	d.stateMu.Unlock()

	close(d.stopCh)
	d.wg.Wait()

	return nil
}

func (d *InMemoryEventDispatcher) processEvents() {
	for {
		select {
		case <-d.stopCh:
			for {
				select {
				case event := <-d.eventCh:
					d.handleEvent(event)
				default:
					return
				}
			}
		case event := <-d.eventCh:
			d.handleEvent(event)
		}
	}
}

func (d *InMemoryEventDispatcher) handleEvent(event DomainEvent) {
	for _, h := range d.snapshot(event.GetEventType()) {
		if err := h.Handle(event); err != nil {
			d.logger.Errorw("event handler failed",
				"event_type", event.GetEventType(),
				"aggregate_id", event.GetAggregateID(),
				"error", err,
			)
		}
	}
}

// SyncEventDispatcher runs handlers inline on the publishing goroutine, in
// subscription order. Handlers may therefore mutate the event payload and
// the publisher sees the result when Publish returns.
type SyncEventDispatcher struct {
	registry
}

func NewSyncEventDispatcher() *SyncEventDispatcher {
	return &SyncEventDispatcher{registry: newRegistry()}
}

// Publish runs every handler even if one fails and returns the joined errors.
func (d *SyncEventDispatcher) Publish(event DomainEvent) error {
	var errs []error
	for _, h := range d.snapshot(event.GetEventType()) {
		if err := h.Handle(event); err != nil {
			errs = append(errs, fmt.Errorf("handler for %s: %w", event.GetEventType(), err))
		}
	}
	return errors.Join(errs...)
}

func (d *SyncEventDispatcher) Start() error { return nil }

func (d *SyncEventDispatcher) Stop() error { return nil }
