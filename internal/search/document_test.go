package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utafrali/ContentSearchGo/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestComputeDocument_AllFields(t *testing.T) {
	rec := domain.ContentRecord{
		EntityType:  "product",
		Name:        "Ergonomic Keyboard",
		Description: strPtr("A split mechanical keyboard"),
		Category:    strPtr("electronics"),
		Tags:        []string{"keyboard", "ergonomic"},
		Attributes: map[string]any{
			"brand": "Keytron",
			"color": "black",
		},
	}

	doc := ComputeDocument(rec)

	assert.Equal(t, "Ergonomic Keyboard", doc.Primary)
	assert.Equal(t, "A split mechanical keyboard", doc.Secondary)
	assert.Equal(t, "electronics keyboard ergonomic", doc.Tertiary)
	assert.Contains(t, doc.Quaternary, "product")
	assert.Contains(t, doc.Quaternary, "Keytron")
	assert.Contains(t, doc.Quaternary, "black")
}

func TestComputeDocument_MissingOptionalFields(t *testing.T) {
	rec := domain.ContentRecord{
		EntityType: "article",
		Name:       "Intro to Go",
	}

	doc := ComputeDocument(rec)

	assert.Equal(t, "Intro to Go", doc.Primary)
	assert.Empty(t, doc.Secondary)
	assert.Equal(t, " ", doc.Tertiary)
	assert.Contains(t, doc.Quaternary, "article")
}

func TestComputeDocument_Deterministic(t *testing.T) {
	rec := domain.ContentRecord{
		EntityType: "service",
		Name:       "Plumbing",
		Attributes: map[string]any{
			"service_area":  "Portland",
			"pricing_model": "hourly",
		},
	}

	first := ComputeDocument(rec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeDocument(rec))
	}
}

func TestAttributeText_OrderFollowsAllowList(t *testing.T) {
	attrs := map[string]any{
		"pricing_model": "fixed",
		"author":        "Jane Doe",
		"brand":         "Acme",
	}

	text := AttributeText(attrs)

	// author precedes brand precedes pricing_model regardless of map order.
	assert.Regexp(t, `Jane Doe.*Acme.*fixed`, text)
}

func TestAttributeText_IgnoresUnknownKeys(t *testing.T) {
	attrs := map[string]any{
		"internal_sku": "XYZ-123",
		"brand":        "Acme",
	}

	text := AttributeText(attrs)

	assert.NotContains(t, text, "XYZ-123")
	assert.Contains(t, text, "Acme")
}

func TestAttributeText_NonStringValues(t *testing.T) {
	attrs := map[string]any{
		"reading_time": float64(12),
		"duration":     90,
	}

	text := AttributeText(attrs)

	assert.Contains(t, text, "12")
	assert.Contains(t, text, "90")
}

func TestAttributeText_NilMap(t *testing.T) {
	text := AttributeText(nil)
	// Only separators remain, one per gap between the allow-listed keys.
	assert.Equal(t, len(IndexedAttributeKeys)-1, len(text))
}
