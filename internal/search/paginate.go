package search

import "fmt"

// Pagination limits. A request without an explicit limit gets DefaultLimit;
// anything above MaxLimit is rejected rather than clamped.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page describes how to page a result set. AfterID, when set, selects
// cursor pagination and takes precedence over Offset.
type Page struct {
	Limit   int
	Offset  int
	AfterID string
}

// CursorPredicate builds the keyset condition resuming strictly after the
// cursor row under the given sort. The cursor id binds at placeholder
// argIndex; the cursor row's own sort value is fetched with a subselect so
// callers pass only the id.
//
// Relevance-sorted queries degrade to id ordering: the computed score is not
// a stored column a subselect could read, so the cursor walks records in id
// order instead.
func CursorPredicate(sort SortKey, argIndex int) string {
	if sort.Field == FieldRelevance {
		if sort.Direction == DESC {
			return fmt.Sprintf("id < $%d", argIndex)
		}
		return fmt.Sprintf("id > $%d", argIndex)
	}

	col := sort.Column()
	cursorValue := fmt.Sprintf("(SELECT %s FROM searchable_content WHERE id = $%d)", col, argIndex)
	op := ">"
	if sort.Direction == DESC {
		op = "<"
	}
	return fmt.Sprintf("(%s %s %s OR (%s = %s AND id %s $%d))",
		col, op, cursorValue, col, cursorValue, op, argIndex)
}
