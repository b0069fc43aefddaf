package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves queued messages, then blocks until ctx is done.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) Committed() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func newTestConsumer(reader messageReader) *Consumer {
	return &Consumer{
		reader: reader,
		retry:  func() backoff.BackOff { return &backoff.ZeroBackOff{} },
		logger: zap.NewNop(),
	}
}

func TestConsume_RetriesFailedMessageBeforeCommitting(t *testing.T) {
	reader := &fakeReader{queue: []kafkago.Message{{Offset: 1}, {Offset: 2}}}
	c := newTestConsumer(reader)

	var mu sync.Mutex
	var seen []int64
	var failures atomic.Int32
	handle := func(_ context.Context, msg kafkago.Message) error {
		mu.Lock()
		seen = append(seen, msg.Offset)
		mu.Unlock()
		if msg.Offset == 1 && failures.Add(1) <= 2 {
			return errors.New("database is locked")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Consume(ctx, handle) }()

	require.Eventually(t, func() bool { return len(reader.Committed()) == 2 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, []int64{1, 2}, reader.Committed())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{1, 1, 1, 2}, seen)
}

func TestConsume_CancelWhileRetryingLeavesOffsetUncommitted(t *testing.T) {
	reader := &fakeReader{queue: []kafkago.Message{{Offset: 7}}}
	c := newTestConsumer(reader)
	c.retry = func() backoff.BackOff { return backoff.NewConstantBackOff(5 * time.Millisecond) }

	var attempts atomic.Int32
	handle := func(context.Context, kafkago.Message) error {
		attempts.Add(1)
		return errors.New("database is down")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Consume(ctx, handle) }()

	require.Eventually(t, func() bool { return attempts.Load() >= 3 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, reader.Committed())
}
