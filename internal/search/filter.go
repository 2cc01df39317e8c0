package search

import (
	"fmt"
	"strings"
	"time"
)

// Filters are the structured, exact-match constraints of a search request.
// Zero values mean "not filtered". All filters combine with AND.
type Filters struct {
	Types      []string
	Categories []string
	Tags       []string
	PriceMin   *float64
	PriceMax   *float64
	DateFrom   *time.Time
	DateTo     *time.Time
}

// SplitList parses a comma-separated parameter into a set of trimmed,
// non-empty values. An empty input yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// CompileFilters turns the filters into SQL conditions with positional
// placeholders starting at argIndex. It returns the conditions, their
// arguments and the next free placeholder index.
//
// Tag filtering uses array containment, so a record must carry every
// requested tag. Price bounds are inclusive on both ends. The upper date
// bound is a calendar day and is treated as inclusive by comparing strictly
// below the start of the following day.
func CompileFilters(f Filters, argIndex int) ([]string, []any, int) {
	var conditions []string
	var args []any

	if len(f.Types) > 0 {
		conditions = append(conditions, fmt.Sprintf("entity_type = ANY($%d)", argIndex))
		args = append(args, f.Types)
		argIndex++
	}
	if len(f.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", argIndex))
		args = append(args, f.Categories)
		argIndex++
	}
	if len(f.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags @> $%d", argIndex))
		args = append(args, f.Tags)
		argIndex++
	}
	if f.PriceMin != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *f.PriceMin)
		argIndex++
	}
	if f.PriceMax != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *f.PriceMax)
		argIndex++
	}
	if f.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("published_date >= $%d", argIndex))
		args = append(args, *f.DateFrom)
		argIndex++
	}
	if f.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("published_date < $%d", argIndex))
		args = append(args, f.DateTo.AddDate(0, 0, 1))
		argIndex++
	}
	return conditions, args, argIndex
}
