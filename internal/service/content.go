// Package service implements the business logic: content writes with
// synchronous index computation, search orchestration and the index
// backfill procedure.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/event"
	"github.com/utafrali/ContentSearchGo/internal/repository"
	"github.com/utafrali/ContentSearchGo/internal/search"
)

// CreateContentInput is the payload for creating one content record.
type CreateContentInput struct {
	EntityType    string         `json:"entity_type" validate:"required,max=100"`
	Name          string         `json:"name" validate:"required,max=500"`
	Description   *string        `json:"description,omitempty"`
	Category      *string        `json:"category,omitempty" validate:"omitempty,max=255"`
	Tags          []string       `json:"tags,omitempty" validate:"omitempty,dive,required,max=100"`
	Price         *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	PublishedDate *time.Time     `json:"published_date,omitempty"`
	URL           *string        `json:"url,omitempty" validate:"omitempty,max=2048"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// UpdateContentInput is the payload for partially updating a record. Nil
// fields are left unchanged.
type UpdateContentInput struct {
	Name          *string        `json:"name,omitempty" validate:"omitempty,min=1,max=500"`
	Description   *string        `json:"description,omitempty"`
	Category      *string        `json:"category,omitempty" validate:"omitempty,max=255"`
	Tags          []string       `json:"tags,omitempty" validate:"omitempty,dive,required,max=100"`
	Price         *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	PublishedDate *time.Time     `json:"published_date,omitempty"`
	URL           *string        `json:"url,omitempty" validate:"omitempty,max=2048"`
	Attributes    map[string]any `json:"attributes,omitempty"`
}

// BulkLoadInput is the payload for loading many records at once, skipping
// index computation for speed.
type BulkLoadInput struct {
	Records []CreateContentInput `json:"records" validate:"required,min=1,max=10000,dive"`
}

// ContentService handles content record writes. Every single-record write
// computes the weighted search document before persisting, so the record and
// its index land in one statement.
type ContentService struct {
	repo   repository.ContentRepository
	events *event.Publisher
	logger *slog.Logger
}

// NewContentService creates a new ContentService.
func NewContentService(repo repository.ContentRepository, events *event.Publisher, logger *slog.Logger) *ContentService {
	return &ContentService{repo: repo, events: events, logger: logger}
}

// Create inserts a new record with its search vector.
func (s *ContentService) Create(ctx context.Context, input *CreateContentInput) (*domain.ContentRecord, error) {
	rec := &domain.ContentRecord{
		ID:              uuid.New().String(),
		EntityType:      input.EntityType,
		Name:            input.Name,
		Description:     input.Description,
		Category:        input.Category,
		Tags:            input.Tags,
		Price:           input.Price,
		PublishedDate:   input.PublishedDate,
		LastUpdatedDate: time.Now().UTC(),
		URL:             input.URL,
		Attributes:      input.Attributes,
	}

	if err := s.repo.Create(ctx, rec, search.ComputeDocument(*rec)); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "content record created",
		slog.String("content_id", rec.ID),
		slog.String("entity_type", rec.EntityType),
	)
	s.events.ContentCreated(ctx, rec)
	return rec, nil
}

// Update applies a partial update and recomputes the search vector from the
// merged record.
func (s *ContentService) Update(ctx context.Context, id string, input *UpdateContentInput) (*domain.ContentRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		rec.Name = *input.Name
	}
	if input.Description != nil {
		rec.Description = input.Description
	}
	if input.Category != nil {
		rec.Category = input.Category
	}
	if input.Tags != nil {
		rec.Tags = input.Tags
	}
	if input.Price != nil {
		rec.Price = input.Price
	}
	if input.PublishedDate != nil {
		rec.PublishedDate = input.PublishedDate
	}
	if input.URL != nil {
		rec.URL = input.URL
	}
	if input.Attributes != nil {
		rec.Attributes = input.Attributes
	}
	rec.LastUpdatedDate = time.Now().UTC()

	if err := s.repo.Update(ctx, rec, search.ComputeDocument(*rec)); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "content record updated", slog.String("content_id", rec.ID))
	s.events.ContentUpdated(ctx, rec)
	return rec, nil
}

// BulkLoad inserts many records without search vectors. The records stay
// invisible to text search until a backfill run indexes them.
func (s *ContentService) BulkLoad(ctx context.Context, input *BulkLoadInput) (int, error) {
	now := time.Now().UTC()
	recs := make([]domain.ContentRecord, len(input.Records))
	for i, in := range input.Records {
		recs[i] = domain.ContentRecord{
			ID:              uuid.New().String(),
			EntityType:      in.EntityType,
			Name:            in.Name,
			Description:     in.Description,
			Category:        in.Category,
			Tags:            in.Tags,
			Price:           in.Price,
			PublishedDate:   in.PublishedDate,
			LastUpdatedDate: now,
			URL:             in.URL,
			Attributes:      in.Attributes,
		}
	}

	if err := s.repo.BulkInsert(ctx, recs); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "content records bulk loaded", slog.Int("count", len(recs)))
	s.events.ContentBulkLoaded(ctx, len(recs))
	return len(recs), nil
}
