// Package event publishes content lifecycle events to Kafka. Publishing is
// best-effort: a broker failure is logged and never fails the write that
// triggered it.
package event

import (
	"context"
	"log/slog"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/pkg/kafka"
	"github.com/utafrali/ContentSearchGo/pkg/logger"
)

// Topics for content lifecycle events.
const (
	TopicContentCreated    = "content.created"
	TopicContentUpdated    = "content.updated"
	TopicContentBulkLoaded = "content.bulk_loaded"
)

// Event types carried in the envelope.
const (
	TypeContentCreated    = "content.created"
	TypeContentUpdated    = "content.updated"
	TypeContentBulkLoaded = "content.bulk_loaded"
)

// ContentEventData is the payload for created and updated events.
type ContentEventData struct {
	ID         string `json:"id"`
	EntityType string `json:"entity_type"`
	Name       string `json:"name"`
}

// BulkLoadedEventData is the payload for bulk load events. Count is the
// number of records loaded without a search vector; a backfill run is
// expected to follow.
type BulkLoadedEventData struct {
	Count int `json:"count"`
}

// Publisher emits content lifecycle events.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a Publisher. producer may be nil, in which case all
// publishes are no-ops; this keeps event wiring optional in tooling that
// runs without a broker.
func NewPublisher(producer *kafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// ContentCreated publishes a content.created event.
func (p *Publisher) ContentCreated(ctx context.Context, rec *domain.ContentRecord) {
	p.publish(ctx, TopicContentCreated, TypeContentCreated, rec.ID, ContentEventData{
		ID:         rec.ID,
		EntityType: rec.EntityType,
		Name:       rec.Name,
	})
}

// ContentUpdated publishes a content.updated event.
func (p *Publisher) ContentUpdated(ctx context.Context, rec *domain.ContentRecord) {
	p.publish(ctx, TopicContentUpdated, TypeContentUpdated, rec.ID, ContentEventData{
		ID:         rec.ID,
		EntityType: rec.EntityType,
		Name:       rec.Name,
	})
}

// ContentBulkLoaded publishes a content.bulk_loaded event.
func (p *Publisher) ContentBulkLoaded(ctx context.Context, count int) {
	p.publish(ctx, TopicContentBulkLoaded, TypeContentBulkLoaded, "", BulkLoadedEventData{Count: count})
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregateID string, data any) {
	if p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, "content_record", "content-search-service", data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
