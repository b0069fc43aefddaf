package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/daedongje/service-wayfinding/internal/contracts"
	"github.com/daedongje/service-wayfinding/internal/platform/errs"
	"github.com/daedongje/service-wayfinding/internal/platform/kafka"
)

// CatalogUpdater applies facility catalog changes.
type CatalogUpdater interface {
	ApplyFacilityUpserted(ctx context.Context, evt contracts.FacilityUpsertedEvent) error
	ApplyFacilityRemoved(ctx context.Context, evt contracts.FacilityRemovedEvent) error
}

// FacilityEventConsumer listens to facility catalog events and keeps the
// location catalog in sync.
type FacilityEventConsumer struct {
	consumer *kafka.Consumer
	catalog  CatalogUpdater
	logger   *zap.Logger
}

// NewFacilityEventConsumer creates a new FacilityEventConsumer.
func NewFacilityEventConsumer(
	brokers []string,
	groupID string,
	catalog CatalogUpdater,
	logger *zap.Logger,
) *FacilityEventConsumer {
	return &FacilityEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, contracts.TopicCatalogEvents, logger),
		catalog:  catalog,
		logger:   logger,
	}
}

// Start begins consuming facility events. This blocks until the context is cancelled.
func (c *FacilityEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *FacilityEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *FacilityEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from catalog topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contracts.FacilityUpserted:
		var evt contracts.FacilityUpsertedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse FacilityUpsertedEvent data", zap.Error(err))
			return nil
		}
		return c.apply(cloudEvent, c.catalog.ApplyFacilityUpserted(ctx, evt))

	case contracts.FacilityRemoved:
		var evt contracts.FacilityRemovedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse FacilityRemovedEvent data", zap.Error(err))
			return nil
		}
		return c.apply(cloudEvent, c.catalog.ApplyFacilityRemoved(ctx, evt))

	default:
		c.logger.Debug("ignoring unhandled catalog event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// apply decides whether a failed update is retried. Events that can never
// apply are dropped.
func (c *FacilityEventConsumer) apply(cloudEvent kafka.CloudEvent, err error) error {
	if err == nil {
		return nil
	}
	if kind, ok := errs.KindOf(err); ok && kind == errs.KindValidation {
		c.logger.Warn("dropping invalid catalog event",
			zap.String("id", cloudEvent.ID),
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil
	}
	c.logger.Error("failed to apply catalog event",
		zap.String("id", cloudEvent.ID),
		zap.String("type", cloudEvent.Type),
		zap.Error(err),
	)
	return err
}
