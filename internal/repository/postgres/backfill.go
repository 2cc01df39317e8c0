package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/utafrali/ContentSearchGo/internal/search"
	apperrors "github.com/utafrali/ContentSearchGo/pkg/errors"
)

// CountMissingVectors returns how many records still have no search vector.
func (r *ContentRepository) CountMissingVectors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		"SELECT count(*) FROM searchable_content WHERE search_vector IS NULL",
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count records missing search vectors")
	}
	return count, nil
}

// backfillBaseQuery computes the base vector (name, description, category
// with tags, entity type) for the next batch of unindexed records, in id
// order so concurrent runs and restarts walk the table deterministically.
// It returns the ids it touched so the attributes pass below can be scoped
// to exactly this batch.
const backfillBaseQuery = `
	WITH records_to_update AS (
		SELECT id FROM searchable_content
		WHERE search_vector IS NULL
		ORDER BY id
		LIMIT $2
	)
	UPDATE searchable_content SET search_vector =
		setweight(to_tsvector($1::regconfig, COALESCE(name, '')), 'A') ||
		setweight(to_tsvector($1::regconfig, COALESCE(description, '')), 'B') ||
		setweight(to_tsvector($1::regconfig,
			COALESCE(category, '') || ' ' ||
			COALESCE(array_to_string(tags, ' '), '')), 'C') ||
		setweight(to_tsvector($1::regconfig, COALESCE(entity_type, '')), 'D')
	WHERE id IN (SELECT id FROM records_to_update)
	RETURNING id`

// backfillAttributesQuery folds the indexed attribute values of the given
// batch into the lowest weight class. Records without attributes keep their
// base vector untouched.
var backfillAttributesQuery = fmt.Sprintf(`
	UPDATE searchable_content
	SET search_vector = search_vector || setweight(to_tsvector($1::regconfig, %s), 'D')
	WHERE id = ANY($2)
	  AND attributes IS NOT NULL
	  AND attributes::text != 'null'`,
	attributeTextExpr())

// attributeTextExpr builds the SQL expression concatenating the allow-listed
// attribute values, matching the order and separators of the in-process
// document computation so backfilled and synchronously indexed records rank
// identically.
func attributeTextExpr() string {
	parts := make([]string, len(search.IndexedAttributeKeys))
	for i, key := range search.IndexedAttributeKeys {
		parts[i] = fmt.Sprintf("COALESCE(attributes->>'%s', '')", key)
	}
	return strings.Join(parts, " || ' ' || ")
}

// BackfillBatch indexes up to batchSize unindexed records in one
// transaction: first the base vector over the record's own columns, then the
// attributes contribution appended for the same rows. Scoping the second
// pass to the ids the first pass touched keeps the whole procedure
// idempotent; once no vectors are missing the batch touches zero rows.
func (r *ContentRepository) BackfillBatch(ctx context.Context, batchSize int) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to begin backfill transaction")
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, backfillBaseQuery, r.language, batchSize)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to compute base search vectors")
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, apperrors.Wrap(err, "failed to scan backfilled id")
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, apperrors.Wrap(err, "failed to read backfilled ids")
	}

	if len(ids) == 0 {
		return 0, nil
	}

	if _, err := tx.Exec(ctx, backfillAttributesQuery, r.language, ids); err != nil {
		return 0, apperrors.Wrap(err, "failed to merge attribute search vectors")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, apperrors.Wrap(err, "failed to commit backfill batch")
	}
	return int64(len(ids)), nil
}
