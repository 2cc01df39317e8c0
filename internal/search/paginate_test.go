package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorPredicate_Ascending(t *testing.T) {
	got := CursorPredicate(SortKey{FieldPrice, ASC}, 3)
	want := "(price > (SELECT price FROM searchable_content WHERE id = $3) " +
		"OR (price = (SELECT price FROM searchable_content WHERE id = $3) AND id > $3))"
	assert.Equal(t, want, got)
}

func TestCursorPredicate_Descending(t *testing.T) {
	got := CursorPredicate(SortKey{FieldPublishedDate, DESC}, 2)
	want := "(published_date < (SELECT published_date FROM searchable_content WHERE id = $2) " +
		"OR (published_date = (SELECT published_date FROM searchable_content WHERE id = $2) AND id < $2))"
	assert.Equal(t, want, got)
}

func TestCursorPredicate_RelevanceDegradesToIDOrder(t *testing.T) {
	assert.Equal(t, "id < $1", CursorPredicate(SortKey{FieldRelevance, DESC}, 1))
	assert.Equal(t, "id > $1", CursorPredicate(SortKey{FieldRelevance, ASC}, 1))
}
