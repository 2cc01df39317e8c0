// Package repository defines the persistence contract for content records.
package repository

import (
	"context"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/search"
)

// SearchRequest is a fully resolved search: validated text, structured
// filters, a resolved sort key and pagination. The repository translates it
// into SQL without further interpretation.
type SearchRequest struct {
	Text    string
	Filters search.Filters
	Sort    search.SortKey
	Page    search.Page
}

// ContentRepository persists content records and executes searches over
// them. Writes that accept a WeightedDocument store the record and its
// search vector together in one statement, so a committed record is never
// observable without its index entry.
type ContentRepository interface {
	Create(ctx context.Context, rec *domain.ContentRecord, doc search.WeightedDocument) error
	GetByID(ctx context.Context, id string) (*domain.ContentRecord, error)
	Update(ctx context.Context, rec *domain.ContentRecord, doc search.WeightedDocument) error
	BulkInsert(ctx context.Context, recs []domain.ContentRecord) error
	Search(ctx context.Context, req SearchRequest) ([]domain.SearchResultItem, int, error)
}

// BackfillRepository covers the index maintenance path for records that
// were bulk-loaded without a search vector.
type BackfillRepository interface {
	CountMissingVectors(ctx context.Context) (int64, error)
	BackfillBatch(ctx context.Context, batchSize int) (int64, error)
}
