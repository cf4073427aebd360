package email

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Outbox holds messages between construction and delivery.
type Outbox interface {
	Enqueue(ctx context.Context, msgs ...*Message) error
	// Dequeue removes and returns up to n messages in FIFO order.
	Dequeue(ctx context.Context, n int) ([]*Message, error)
	Len(ctx context.Context) (int64, error)
}

// MemoryOutbox is a process-local Outbox. Messages are lost on restart.
type MemoryOutbox struct {
	mu    sync.Mutex
	queue []*Message
}

func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{}
}

func (o *MemoryOutbox) Enqueue(ctx context.Context, msgs ...*Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.queue = append(o.queue, msgs...)
	return nil
}

func (o *MemoryOutbox) Dequeue(ctx context.Context, n int) ([]*Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if n <= 0 || len(o.queue) == 0 {
		return nil, nil
	}
	if n > len(o.queue) {
		n = len(o.queue)
	}
	out := make([]*Message, n)
	copy(out, o.queue[:n])
	o.queue = o.queue[n:]
	return out, nil
}

func (o *MemoryOutbox) Len(ctx context.Context) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return int64(len(o.queue)), nil
}

// RedisOutbox stores JSON encoded messages in a Redis list so several
// worker processes can share one queue. Entries that cannot be decoded are
// moved to the "<key>:dead" list.
type RedisOutbox struct {
	client *redis.Client
	key    string
}

func NewRedisOutbox(client *redis.Client, key string) *RedisOutbox {
	return &RedisOutbox{client: client, key: key}
}

// DeadLetterKey returns the list holding undecodable entries.
func (o *RedisOutbox) DeadLetterKey() string {
	return o.key + ":dead"
}

func (o *RedisOutbox) Enqueue(ctx context.Context, msgs ...*Message) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal email %s: %w", m.ID, err)
		}
		values = append(values, data)
	}
	if err := o.client.RPush(ctx, o.key, values...).Err(); err != nil {
		return fmt.Errorf("failed to enqueue emails in redis: %w", err)
	}
	return nil
}

func (o *RedisOutbox) Dequeue(ctx context.Context, n int) ([]*Message, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := o.client.LPopCount(ctx, o.key, n).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue emails from redis: %w", err)
	}

	out := make([]*Message, 0, len(raw))
	var dead []interface{}
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			dead = append(dead, item)
			continue
		}
		out = append(out, &m)
	}

	if len(dead) > 0 {
		if err := o.client.RPush(context.WithoutCancel(ctx), o.DeadLetterKey(), dead...).Err(); err != nil {
			return out, fmt.Errorf("failed to move %d undecodable emails to %s: %w", len(dead), o.DeadLetterKey(), err)
		}
	}
	return out, nil
}

func (o *RedisOutbox) Len(ctx context.Context) (int64, error) {
	n, err := o.client.LLen(ctx, o.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read outbox length: %w", err)
	}
	return n, nil
}
