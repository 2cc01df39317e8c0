package search

import "strings"

// Sort directions.
const (
	ASC  = "ASC"
	DESC = "DESC"
)

// Sortable fields. FieldRelevance is virtual: it maps to the score column
// computed per query rather than a stored column.
const (
	FieldName          = "name"
	FieldPrice         = "price"
	FieldPublishedDate = "published_date"
	FieldRelevance     = "relevance"
)

// relevanceColumn is the output column alias carrying the computed score.
const relevanceColumn = "relevance_score"

// SortKey is a fully resolved sort: a recognized field plus a direction.
// Results are always additionally tie-broken by id in the same direction,
// so ordering is total and cursor pagination stays deterministic.
type SortKey struct {
	Field     string
	Direction string
}

// Column returns the SQL column or alias the key orders by.
func (k SortKey) Column() string {
	if k.Field == FieldRelevance {
		return relevanceColumn
	}
	return k.Field
}

// ResolveSort parses a sort specifier like "price" or "-published_date" into
// a sort key. A leading "-" means descending, otherwise ascending. An absent
// or unrecognized specifier means relevance.
//
// Relevance sorting only makes sense when free text was given; without one
// it falls back to newest-first by publication date, ignoring the requested
// direction.
func ResolveSort(spec string, hasTextQuery bool) SortKey {
	field := strings.TrimSpace(spec)
	direction := ASC
	if strings.HasPrefix(field, "-") {
		direction = DESC
		field = field[1:]
	}

	switch field {
	case FieldName, FieldPrice, FieldPublishedDate:
		return SortKey{Field: field, Direction: direction}
	default:
		if hasTextQuery {
			return SortKey{Field: FieldRelevance, Direction: direction}
		}
		return SortKey{Field: FieldPublishedDate, Direction: DESC}
	}
}
