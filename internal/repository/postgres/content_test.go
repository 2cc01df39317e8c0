package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/repository"
	"github.com/utafrali/ContentSearchGo/internal/search"
	"github.com/utafrali/ContentSearchGo/pkg/database"
	apperrors "github.com/utafrali/ContentSearchGo/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func newRepo(mock pgxmock.PgxPoolIface) *ContentRepository {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewContentRepository(mock, "english", logger)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var resultCols = []string{
	"id", "entity_type", "name", "description", "category", "tags",
	"price", "published_date", "url", "relevance_score",
}

func sampleRecord() domain.ContentRecord {
	return domain.ContentRecord{
		ID:              "7b2e9d6a-1f34-4c8b-9e21-0a5d3c4f6e78",
		EntityType:      domain.EntityTypeProduct,
		Name:            "Ergonomic Keyboard",
		Description:     strPtr("A split mechanical keyboard"),
		Category:        strPtr("electronics"),
		Tags:            []string{"keyboard", "ergonomic"},
		Price:           floatPtr(150),
		PublishedDate:   &now,
		LastUpdatedDate: now,
		URL:             strPtr("https://shop.example.com/keyboard"),
		Attributes:      map[string]any{"brand": "Keytron"},
	}
}

func resultRow(id, name string, price *float64, score *float64) []any {
	return []any{
		id, domain.EntityTypeProduct, name, nil, nil, []string(nil),
		price, &now, nil, score,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// writes
// ─────────────────────────────────────────────────────────────────────────────

func TestContentRepository_Create_ComputesVectorInInsert(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	rec := sampleRecord()
	doc := search.ComputeDocument(rec)

	mock.ExpectExec("INSERT INTO searchable_content").
		WithArgs(
			rec.ID, rec.EntityType, rec.Name, rec.Description, rec.Category,
			rec.Tags, rec.Price, rec.PublishedDate, rec.LastUpdatedDate,
			rec.URL, pgxmock.AnyArg(),
			"english", doc.Primary, doc.Secondary, doc.Tertiary, doc.Quaternary,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &rec, doc)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT id, entity_type, name").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestContentRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	rec := sampleRecord()
	doc := search.ComputeDocument(rec)

	mock.ExpectExec("UPDATE searchable_content").
		WithArgs(
			rec.ID, rec.EntityType, rec.Name, rec.Description, rec.Category,
			rec.Tags, rec.Price, rec.PublishedDate, rec.LastUpdatedDate,
			rec.URL, pgxmock.AnyArg(),
			"english", doc.Primary, doc.Secondary, doc.Tertiary, doc.Quaternary,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &rec, doc)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestContentRepository_BulkInsert_LeavesVectorNull(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	rec := sampleRecord()

	batch := mock.ExpectBatch()
	batch.ExpectExec("INSERT INTO searchable_content").
		WithArgs(
			rec.ID, rec.EntityType, rec.Name, rec.Description, rec.Category,
			rec.Tags, rec.Price, rec.PublishedDate, rec.LastUpdatedDate,
			rec.URL, pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.BulkInsert(context.Background(), []domain.ContentRecord{rec})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_BulkInsert_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	err := repo.BulkInsert(context.Background(), nil)
	assert.NoError(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// search
// ─────────────────────────────────────────────────────────────────────────────

func TestContentRepository_Search_FiltersAndSort(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	req := repository.SearchRequest{
		Filters: search.Filters{
			Types:    []string{"product"},
			PriceMin: floatPtr(100),
			PriceMax: floatPtr(300),
		},
		Sort: search.SortKey{Field: search.FieldPrice, Direction: search.DESC},
		Page: search.Page{Limit: 2},
	}

	mock.ExpectQuery("SELECT count").
		WithArgs([]string{"product"}, float64(100), float64(300)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery("FROM searchable_content WHERE entity_type").
		WithArgs([]string{"product"}, float64(100), float64(300), 2).
		WillReturnRows(pgxmock.NewRows(resultCols).
			AddRow(resultRow("id-1", "Desk", floatPtr(300), nil)...).
			AddRow(resultRow("id-2", "Chair", floatPtr(150), nil)...))

	items, total, err := repo.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Desk", items[0].Name)
	assert.Equal(t, "Chair", items[1].Name)
	assert.Nil(t, items[0].RelevanceScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_Search_TextQueryRanksResults(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	req := repository.SearchRequest{
		Text: "ergonomic keyboard",
		Sort: search.SortKey{Field: search.FieldRelevance, Direction: search.DESC},
		Page: search.Page{Limit: 20},
	}

	mock.ExpectQuery("SELECT count").
		WithArgs("english", "ergonomic:* & keyboard:*").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("ts_rank_cd").
		WithArgs("english", "ergonomic:* & keyboard:*", 20).
		WillReturnRows(pgxmock.NewRows(resultCols).
			AddRow(resultRow("id-1", "Ergonomic Keyboard", floatPtr(150), floatPtr(0.42))...))

	items, total, err := repo.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].RelevanceScore)
	assert.InDelta(t, 0.42, *items[0].RelevanceScore, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_Search_CursorPagination(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	req := repository.SearchRequest{
		Sort: search.SortKey{Field: search.FieldPrice, Direction: search.DESC},
		Page: search.Page{Limit: 2, AfterID: "id-2"},
	}

	mock.ExpectQuery("SELECT count").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	mock.ExpectQuery("OR \\(price =").
		WithArgs("id-2", 2).
		WillReturnRows(pgxmock.NewRows(resultCols).
			AddRow(resultRow("id-3", "Lamp", floatPtr(99), nil)...))

	items, total, err := repo.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, items, 1)
	assert.Equal(t, "id-3", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_Search_OffsetIgnoredWithCursor(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	req := repository.SearchRequest{
		Sort: search.SortKey{Field: search.FieldName, Direction: search.ASC},
		Page: search.Page{Limit: 10, Offset: 50, AfterID: "id-7"},
	}

	mock.ExpectQuery("SELECT count").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	// Only the cursor id and limit bind; no OFFSET clause or argument.
	mock.ExpectQuery("FROM searchable_content WHERE").
		WithArgs("id-7", 10).
		WillReturnRows(pgxmock.NewRows(resultCols))

	_, _, err := repo.Search(context.Background(), req)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepository_Search_QueryError(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := newRepo(mock)

	mock.ExpectQuery("SELECT count").
		WillReturnError(errors.New("connection refused"))

	_, _, err := repo.Search(context.Background(), repository.SearchRequest{
		Sort: search.SortKey{Field: search.FieldPublishedDate, Direction: search.DESC},
		Page: search.Page{Limit: 20},
	})
	assert.Error(t, err)
}
