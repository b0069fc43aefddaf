package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes a single message. A returned error makes the
// consumer retry the same message; the offset is committed only once it succeeds.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// messageReader is the subset of *kafkago.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads a single topic as part of a consumer group.
type Consumer struct {
	reader messageReader
	retry  func() backoff.BackOff
	logger *zap.Logger
}

// NewConsumer creates a Consumer for topic in groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		retry:  handlerBackOff,
		logger: logger.With(zap.String("topic", topic), zap.String("group_id", groupID)),
	}
}

// handlerBackOff retries a failing message until the context ends.
func handlerBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Consume fetches messages until ctx is cancelled. Each message is handed to
// handle until it succeeds and only then committed, so a failing message
// blocks the partition instead of being skipped.
func (c *Consumer) Consume(ctx context.Context, handle MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return context.Canceled
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			return err
		}

		err = backoff.RetryNotify(
			func() error { return handle(ctx, msg) },
			backoff.WithContext(c.retry(), ctx),
			func(err error, wait time.Duration) {
				c.logger.Warn("message handler failed, retrying",
					zap.Int64("offset", msg.Offset),
					zap.Duration("wait", wait),
					zap.Error(err),
				)
			},
		)
		if err != nil {
			if ctx.Err() != nil {
				return context.Canceled
			}
			c.logger.Error("message handler gave up, offset not committed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return context.Canceled
			}
			c.logger.Error("failed to commit message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
