package domain

import (
	"time"
)

// Well-known entity types. The discriminator is free-form, these are only the
// values the seed tooling and tests use.
const (
	EntityTypeProduct = "product"
	EntityTypeArticle = "article"
	EntityTypeService = "service"
)

// ContentRecord represents one indexed item. Records are polymorphic by
// EntityType; type-specific metadata lives in the open-ended Attributes map.
// The weighted search vector derived from a record is never carried on the
// struct: it is write-only, computed in the persistence layer from the fields
// here, and excluded from read projections.
type ContentRecord struct {
	ID              string         `json:"id"`
	EntityType      string         `json:"entity_type"`
	Name            string         `json:"name"`
	Description     *string        `json:"description,omitempty"`
	Category        *string        `json:"category,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	Price           *float64       `json:"price,omitempty"`
	PublishedDate   *time.Time     `json:"published_date,omitempty"`
	LastUpdatedDate time.Time      `json:"last_updated_date"`
	URL             *string        `json:"url,omitempty"`
	Attributes      map[string]any `json:"attributes,omitempty"`
}

// SearchResultItem is one row of a search response. RelevanceScore is set
// only when the query carried free text.
type SearchResultItem struct {
	ID             string     `json:"id"`
	EntityType     string     `json:"entity_type"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Price          *float64   `json:"price,omitempty"`
	PublishedDate  *time.Time `json:"published_date,omitempty"`
	URL            *string    `json:"url,omitempty"`
	RelevanceScore *float64   `json:"relevance_score,omitempty"`
}

// SearchMetadata describes the page of results that accompanies it.
// NextCursor is present only when the page is full, signaling more results.
type SearchMetadata struct {
	Query        string  `json:"query"`
	TotalResults int     `json:"total_results"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
	NextCursor   *string `json:"next_cursor,omitempty"`
}

// SearchResponse is the full result of a search request.
type SearchResponse struct {
	Metadata SearchMetadata     `json:"metadata"`
	Results  []SearchResultItem `json:"results"`
}
