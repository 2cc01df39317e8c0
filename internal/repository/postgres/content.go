// Package postgres implements the content repository on PostgreSQL, using
// the database's full-text machinery for indexing and relevance ranking.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/ContentSearchGo/internal/domain"
	"github.com/utafrali/ContentSearchGo/internal/repository"
	"github.com/utafrali/ContentSearchGo/internal/search"
	"github.com/utafrali/ContentSearchGo/pkg/database"
	apperrors "github.com/utafrali/ContentSearchGo/pkg/errors"
)

// resultColumns is the read projection for search results. The vector
// itself and bookkeeping columns are deliberately excluded.
const resultColumns = "id, entity_type, name, description, category, tags, price, published_date, url"

// ContentRepository is the PostgreSQL implementation of the content store.
// language is the text search configuration (regconfig) used for every
// to_tsvector and to_tsquery call, so documents and queries always agree.
type ContentRepository struct {
	db       database.DBTX
	language string
	logger   *slog.Logger
}

// NewContentRepository creates a new PostgreSQL content repository.
func NewContentRepository(db database.DBTX, language string, logger *slog.Logger) *ContentRepository {
	return &ContentRepository{db: db, language: language, logger: logger}
}

// vectorExpr returns the SQL expression assembling the four weight classes
// into one tsvector. langIdx binds the regconfig; the four class texts bind
// at the following consecutive placeholders.
func vectorExpr(langIdx, firstClassIdx int) string {
	return fmt.Sprintf(
		"setweight(to_tsvector($%d::regconfig, $%d), 'A') || "+
			"setweight(to_tsvector($%d::regconfig, $%d), 'B') || "+
			"setweight(to_tsvector($%d::regconfig, $%d), 'C') || "+
			"setweight(to_tsvector($%d::regconfig, $%d), 'D')",
		langIdx, firstClassIdx,
		langIdx, firstClassIdx+1,
		langIdx, firstClassIdx+2,
		langIdx, firstClassIdx+3,
	)
}

// Create inserts a record together with its search vector in a single
// statement. The record is never visible to searches without its index.
func (r *ContentRepository) Create(ctx context.Context, rec *domain.ContentRecord, doc search.WeightedDocument) error {
	attrs, err := marshalAttributes(rec.Attributes)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO searchable_content
			(id, entity_type, name, description, category, tags, price,
			 published_date, last_updated_date, url, attributes, search_vector)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, %s)`,
		vectorExpr(12, 13))

	_, err = r.db.Exec(ctx, query,
		rec.ID, rec.EntityType, rec.Name, rec.Description, rec.Category,
		rec.Tags, rec.Price, rec.PublishedDate, rec.LastUpdatedDate,
		rec.URL, attrs,
		r.language, doc.Primary, doc.Secondary, doc.Tertiary, doc.Quaternary,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("content record", rec.ID)
		}
		return apperrors.Wrap(err, "failed to create content record")
	}
	return nil
}

// GetByID fetches one record by id, attributes included.
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*domain.ContentRecord, error) {
	query := `
		SELECT id, entity_type, name, description, category, tags, price,
		       published_date, last_updated_date, url, attributes
		FROM searchable_content
		WHERE id = $1`

	var rec domain.ContentRecord
	var attrs []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.EntityType, &rec.Name, &rec.Description, &rec.Category,
		&rec.Tags, &rec.Price, &rec.PublishedDate, &rec.LastUpdatedDate,
		&rec.URL, &attrs,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("content record", id)
		}
		return nil, apperrors.Wrap(err, "failed to get content record")
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &rec.Attributes); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode attributes")
		}
	}
	return &rec, nil
}

// Update rewrites a record and recomputes its search vector in the same
// statement.
func (r *ContentRepository) Update(ctx context.Context, rec *domain.ContentRecord, doc search.WeightedDocument) error {
	attrs, err := marshalAttributes(rec.Attributes)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE searchable_content
		SET entity_type = $2, name = $3, description = $4, category = $5,
		    tags = $6, price = $7, published_date = $8, last_updated_date = $9,
		    url = $10, attributes = $11, search_vector = %s
		WHERE id = $1`,
		vectorExpr(12, 13))

	tag, err := r.db.Exec(ctx, query,
		rec.ID, rec.EntityType, rec.Name, rec.Description, rec.Category,
		rec.Tags, rec.Price, rec.PublishedDate, rec.LastUpdatedDate,
		rec.URL, attrs,
		r.language, doc.Primary, doc.Secondary, doc.Tertiary, doc.Quaternary,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update content record")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("content record", rec.ID)
	}
	return nil
}

// BulkInsert loads records without computing search vectors, leaving them
// NULL for the backfill to pick up. This is the fast path for large imports.
func (r *ContentRepository) BulkInsert(ctx context.Context, recs []domain.ContentRecord) error {
	if len(recs) == 0 {
		return nil
	}

	const insert = `
		INSERT INTO searchable_content
			(id, entity_type, name, description, category, tags, price,
			 published_date, last_updated_date, url, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	batch := &pgx.Batch{}
	for i := range recs {
		rec := &recs[i]
		attrs, err := marshalAttributes(rec.Attributes)
		if err != nil {
			return err
		}
		batch.Queue(insert,
			rec.ID, rec.EntityType, rec.Name, rec.Description, rec.Category,
			rec.Tags, rec.Price, rec.PublishedDate, rec.LastUpdatedDate,
			rec.URL, attrs,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range recs {
		if _, err := results.Exec(); err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("content record", "")
			}
			return apperrors.Wrap(err, "failed to bulk insert content records")
		}
	}
	return nil
}

// Search executes a resolved search request. It runs a count over the
// filtered set before applying pagination, then fetches one page. When the
// request carries free text, each row also gets a cover-density rank against
// the same tsquery that filtered it.
func (r *ContentRepository) Search(ctx context.Context, req repository.SearchRequest) ([]domain.SearchResultItem, int, error) {
	conditions, args, argIndex := search.CompileFilters(req.Filters, 1)

	scoreExpr := "NULL::double precision"
	if req.Text != "" {
		tsquery := search.FormatTextQuery(req.Text)
		langIdx, queryIdx := argIndex, argIndex+1
		conditions = append(conditions,
			fmt.Sprintf("search_vector @@ to_tsquery($%d::regconfig, $%d)", langIdx, queryIdx))
		scoreExpr = fmt.Sprintf("ts_rank_cd(search_vector, to_tsquery($%d::regconfig, $%d))", langIdx, queryIdx)
		args = append(args, r.language, tsquery)
		argIndex += 2
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM searchable_content" + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to count search results")
	}

	pageConditions := conditions
	pageArgs := args
	orderBy := fmt.Sprintf("%s %s, id %s", req.Sort.Column(), req.Sort.Direction, req.Sort.Direction)

	if req.Page.AfterID != "" {
		pageConditions = append(pageConditions, search.CursorPredicate(req.Sort, argIndex))
		pageArgs = append(pageArgs, req.Page.AfterID)
		argIndex++
		if req.Sort.Field == search.FieldRelevance {
			// The score has no stored column a cursor subselect could
			// compare against, so cursored relevance pages walk id order.
			orderBy = fmt.Sprintf("id %s", req.Sort.Direction)
		}
	}

	pageWhere := ""
	if len(pageConditions) > 0 {
		pageWhere = " WHERE " + strings.Join(pageConditions, " AND ")
	}

	query := fmt.Sprintf(
		"SELECT %s, %s AS relevance_score FROM searchable_content%s ORDER BY %s LIMIT $%d",
		resultColumns, scoreExpr, pageWhere, orderBy, argIndex)
	pageArgs = append(pageArgs, req.Page.Limit)
	argIndex++

	if req.Page.AfterID == "" && req.Page.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		pageArgs = append(pageArgs, req.Page.Offset)
	}

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to execute search")
	}
	defer rows.Close()

	items := make([]domain.SearchResultItem, 0, req.Page.Limit)
	for rows.Next() {
		var item domain.SearchResultItem
		if err := rows.Scan(
			&item.ID, &item.EntityType, &item.Name, &item.Description,
			&item.Category, &item.Tags, &item.Price, &item.PublishedDate,
			&item.URL, &item.RelevanceScore,
		); err != nil {
			return nil, 0, apperrors.Wrap(err, "failed to scan search result")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, "failed to read search results")
	}
	return items, total, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func marshalAttributes(attrs map[string]any) ([]byte, error) {
	if attrs == nil {
		return nil, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode attributes")
	}
	return data, nil
}
