package email

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/rbnotify/internal/domain/shared/events"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(ev events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func newQueued(t *testing.T, to string) *Message {
	t.Helper()
	m, err := MakeEmail(to, testModule())
	require.NoError(t, err)
	return m
}

func TestDeliverer_Flush_SendsEverything(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	a, b, c := newQueued(t, "a@example.org"), newQueued(t, "b@example.org"), newQueued(t, "c@example.org")
	require.NoError(t, outbox.Enqueue(ctx, a, b, c))

	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	pub := &recordingPublisher{}
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	d := NewDeliverer(outbox, sender, pub, metrics, 2, logger.NewNop())
	n, err := d.Flush(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	sender.AssertNumberOfCalls(t, "Send", 3)
	left, _ := outbox.Len(ctx)
	assert.Equal(t, int64(0), left)
	require.Len(t, pub.events, 3)
	assert.Equal(t, EventTypeEmailSent, pub.events[0].GetEventType())
	assert.Equal(t, a.ID, pub.events[0].GetAggregateID())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.sent.WithLabelValues(a.Template)))
}

func TestDeliverer_Flush_RetriesThenGivesUp(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	msg := newQueued(t, "a@example.org")
	require.NoError(t, outbox.Enqueue(ctx, msg))

	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	pub := &recordingPublisher{}
	metrics := NewMetrics(prometheus.NewRegistry())

	d := NewDeliverer(outbox, sender, pub, metrics, 10, logger.NewNop())

	for i := 1; i < DefaultMaxAttempts; i++ {
		n, err := d.Flush(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		left, _ := outbox.Len(ctx)
		assert.Equal(t, int64(1), left, "message kept for retry after attempt %d", i)
	}

	_, err := d.Flush(ctx)
	require.NoError(t, err)

	left, _ := outbox.Len(ctx)
	assert.Equal(t, int64(0), left)
	assert.Equal(t, DefaultMaxAttempts, msg.Attempts)
	require.Len(t, pub.events, 1)
	failed, ok := pub.events[0].(*EmailFailedEvent)
	require.True(t, ok)
	assert.Equal(t, "connection refused", failed.Reason)
	assert.Equal(t, float64(DefaultMaxAttempts-1), testutil.ToFloat64(metrics.retried.WithLabelValues(msg.Template)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.failed.WithLabelValues(msg.Template)))
}

func TestDeliverer_Flush_PartialFailureKeepsGoing(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	good, bad := newQueued(t, "good@example.org"), newQueued(t, "bad@example.org")
	require.NoError(t, outbox.Enqueue(ctx, good, bad))

	sender := new(mockSender)
	sender.On("Send", mock.Anything, good).Return(nil)
	sender.On("Send", mock.Anything, bad).Return(errors.New("mailbox unavailable"))

	d := NewDeliverer(outbox, sender, nil, nil, 10, logger.NewNop())
	n, err := d.Flush(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, bad.Attempts, "one attempt per flush")
	left, _ := outbox.Len(ctx)
	assert.Equal(t, int64(1), left)
}

func TestDeliverer_Flush_FailedMessageTriedOncePerPass(t *testing.T) {
	ctx := context.Background()
	outbox := NewMemoryOutbox()
	bad := newQueued(t, "bad@example.org")
	goods := []*Message{newQueued(t, "a@example.org"), newQueued(t, "b@example.org"), newQueued(t, "c@example.org")}
	require.NoError(t, outbox.Enqueue(ctx, append([]*Message{bad}, goods...)...))

	sender := new(mockSender)
	sender.On("Send", mock.Anything, bad).Return(errors.New("mailbox unavailable"))
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	d := NewDeliverer(outbox, sender, nil, nil, 1, logger.NewNop())
	n, err := d.Flush(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, bad.Attempts)
	rest, _ := outbox.Dequeue(ctx, 10)
	assert.Equal(t, []*Message{bad}, rest)
}

// brokenOutbox hands out its messages together with a decode error, the way
// a shared queue does after popping a corrupt entry.
type brokenOutbox struct {
	*MemoryOutbox
	pending []*Message
}

func (o *brokenOutbox) Dequeue(ctx context.Context, n int) ([]*Message, error) {
	if len(o.pending) == 0 {
		return o.MemoryOutbox.Dequeue(ctx, n)
	}
	batch := o.pending
	o.pending = nil
	return batch, errors.New("failed to unmarshal queued email")
}

func TestDeliverer_Flush_DeliversMessagesReturnedWithReadError(t *testing.T) {
	ctx := context.Background()
	msg := newQueued(t, "a@example.org")
	outbox := &brokenOutbox{MemoryOutbox: NewMemoryOutbox(), pending: []*Message{msg}}

	sender := new(mockSender)
	sender.On("Send", mock.Anything, msg).Return(nil)

	d := NewDeliverer(outbox, sender, nil, nil, 10, logger.NewNop())
	n, err := d.Flush(ctx)

	assert.ErrorContains(t, err, "failed to read outbox")
	assert.Equal(t, 1, n)
	sender.AssertCalled(t, "Send", mock.Anything, msg)
}

func TestDeliverer_Flush_CancelledContextRequeues(t *testing.T) {
	outbox := NewMemoryOutbox()
	require.NoError(t, outbox.Enqueue(context.Background(), newQueued(t, "a@example.org")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := new(mockSender)
	d := NewDeliverer(outbox, sender, nil, nil, 10, logger.NewNop())
	_, err := d.Flush(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	left, _ := outbox.Len(context.Background())
	assert.Equal(t, int64(1), left)
}

func TestMemoryOutbox_FIFO(t *testing.T) {
	ctx := context.Background()
	o := NewMemoryOutbox()
	a, b, c := newQueued(t, "a@example.org"), newQueued(t, "b@example.org"), newQueued(t, "c@example.org")
	require.NoError(t, o.Enqueue(ctx, a, b, c))

	first, err := o.Dequeue(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []*Message{a, b}, first)

	rest, err := o.Dequeue(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []*Message{c}, rest)

	none, err := o.Dequeue(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}
