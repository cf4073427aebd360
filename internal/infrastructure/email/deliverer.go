package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orris-inc/rbnotify/internal/domain/shared/events"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
	"github.com/orris-inc/rbnotify/internal/shared/utils"
)

// DefaultMaxAttempts is how often a message is tried before it is dropped.
const DefaultMaxAttempts = 3

// Deliverer drains an Outbox through a Sender.
type Deliverer struct {
	outbox      Outbox
	sender      Sender
	publisher   events.EventPublisher
	metrics     *Metrics
	logger      logger.Interface
	batchSize   int
	maxAttempts int
}

// NewDeliverer creates a Deliverer. publisher and metrics may be nil.
func NewDeliverer(
	outbox Outbox,
	sender Sender,
	publisher events.EventPublisher,
	metrics *Metrics,
	batchSize int,
	logger logger.Interface,
) *Deliverer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Deliverer{
		outbox:      outbox,
		sender:      sender,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
		batchSize:   batchSize,
		maxAttempts: DefaultMaxAttempts,
	}
}

// Flush delivers queued messages until the outbox is empty and returns how
// many were sent. Messages that failed are put back once the pass is over, so
// each message gets at most one attempt per Flush. Messages returned together
// with a read error are still delivered before the error is reported.
func (d *Deliverer) Flush(ctx context.Context) (int, error) {
	sent := 0
	var retry []*Message
	var flushErr error

	for flushErr == nil {
		batch, err := d.outbox.Dequeue(ctx, d.batchSize)
		if err != nil {
			flushErr = fmt.Errorf("failed to read outbox: %w", err)
		} else if len(batch) == 0 {
			break
		}

		for _, msg := range batch {
			if ctx.Err() != nil {
				retry = append(retry, msg)
				continue
			}
			if d.deliver(ctx, msg) {
				sent++
				continue
			}
			if msg.Attempts < d.maxAttempts {
				retry = append(retry, msg)
			}
		}

		if flushErr == nil {
			flushErr = ctx.Err()
		}
	}

	if len(retry) > 0 {
		if err := d.outbox.Enqueue(context.WithoutCancel(ctx), retry...); err != nil {
			return sent, errors.Join(flushErr, fmt.Errorf("failed to requeue emails: %w", err))
		}
	}
	return sent, flushErr
}

func (d *Deliverer) deliver(ctx context.Context, msg *Message) bool {
	msg.Attempts++
	err := d.sender.Send(ctx, msg)
	if err == nil {
		d.logger.Infow("email sent", "message_id", msg.ID, "to", utils.MaskEmails(msg.To), "template", msg.Template)
		if d.metrics != nil {
			d.metrics.sent.WithLabelValues(msg.Template).Inc()
		}
		d.publish(newEmailSentEvent(msg))
		return true
	}

	if msg.Attempts < d.maxAttempts {
		d.logger.Warnw("email delivery failed, will retry",
			"message_id", msg.ID,
			"attempt", msg.Attempts,
			"error", err,
		)
		if d.metrics != nil {
			d.metrics.retried.WithLabelValues(msg.Template).Inc()
		}
		return false
	}

	d.logger.Errorw("email delivery failed, giving up",
		"message_id", msg.ID,
		"to", utils.MaskEmails(msg.To),
		"attempts", msg.Attempts,
		"error", err,
	)
	if d.metrics != nil {
		d.metrics.failed.WithLabelValues(msg.Template).Inc()
	}
	d.publish(newEmailFailedEvent(msg, err))
	return false
}

func (d *Deliverer) publish(ev events.DomainEvent) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ev); err != nil {
		d.logger.Warnw("failed to publish delivery event", "event_type", ev.GetEventType(), "error", err)
	}
}

// Run flushes the outbox every interval until ctx is done.
func (d *Deliverer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.logger.Infow("email deliverer started", "interval", interval.String())
	for {
		if n, err := d.Flush(ctx); err != nil && ctx.Err() == nil {
			d.logger.Errorw("outbox flush failed", "error", err)
		} else if n > 0 {
			d.logger.Infow("outbox flushed", "sent", n)
		}

		select {
		case <-ctx.Done():
			d.logger.Infow("email deliverer stopped")
			return nil
		case <-ticker.C:
		}
	}
}
