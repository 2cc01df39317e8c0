package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/event"
	apperrors "github.com/utafrali/ContentSearchGo/pkg/errors"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func newContentService(repo *stubContentRepo) *ContentService {
	return NewContentService(repo, event.NewPublisher(nil, testLogger()), testLogger())
}

func TestContentService_Create(t *testing.T) {
	repo := &stubContentRepo{}
	svc := newContentService(repo)

	rec, err := svc.Create(context.Background(), &CreateContentInput{
		EntityType: domain.EntityTypeProduct,
		Name:       "Ergonomic Keyboard",
		Category:   strPtr("electronics"),
		Tags:       []string{"keyboard"},
		Price:      floatPtr(150),
		Attributes: map[string]any{"brand": "Keytron"},
	})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(rec.ID)
	assert.NoError(t, parseErr)
	assert.False(t, rec.LastUpdatedDate.IsZero())
	require.Len(t, repo.created, 1)

	// The index document is computed before the write and carries the
	// record's fields in its weight classes.
	assert.Equal(t, "Ergonomic Keyboard", repo.lastDoc.Primary)
	assert.Contains(t, repo.lastDoc.Tertiary, "electronics")
	assert.Contains(t, repo.lastDoc.Quaternary, "Keytron")
}

func TestContentService_Update_MergesPartialInput(t *testing.T) {
	existing := &domain.ContentRecord{
		ID:          "7b2e9d6a-1f34-4c8b-9e21-0a5d3c4f6e78",
		EntityType:  domain.EntityTypeArticle,
		Name:        "Old Title",
		Description: strPtr("Old description"),
		Tags:        []string{"go"},
	}
	repo := &stubContentRepo{byID: map[string]*domain.ContentRecord{existing.ID: existing}}
	svc := newContentService(repo)

	rec, err := svc.Update(context.Background(), existing.ID, &UpdateContentInput{
		Name: strPtr("New Title"),
	})
	require.NoError(t, err)

	assert.Equal(t, "New Title", rec.Name)
	assert.Equal(t, strPtr("Old description"), rec.Description)
	assert.Equal(t, []string{"go"}, rec.Tags)
	// The recomputed document reflects the merged record.
	assert.Equal(t, "New Title", repo.lastDoc.Primary)
}

func TestContentService_Update_NotFound(t *testing.T) {
	repo := &stubContentRepo{byID: map[string]*domain.ContentRecord{}}
	svc := newContentService(repo)

	_, err := svc.Update(context.Background(), "missing", &UpdateContentInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestContentService_BulkLoad(t *testing.T) {
	repo := &stubContentRepo{}
	svc := newContentService(repo)

	count, err := svc.BulkLoad(context.Background(), &BulkLoadInput{
		Records: []CreateContentInput{
			{EntityType: domain.EntityTypeProduct, Name: "Desk"},
			{EntityType: domain.EntityTypeProduct, Name: "Chair"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	require.Len(t, repo.bulked, 1)
	require.Len(t, repo.bulked[0], 2)
	for _, rec := range repo.bulked[0] {
		_, parseErr := uuid.Parse(rec.ID)
		assert.NoError(t, parseErr)
	}
}
