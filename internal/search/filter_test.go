package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func timePtr(t time.Time) *time.Time { return &t }

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"trims whitespace", " a , b ,c ", []string{"a", "b", "c"}},
		{"drops empty entries", "a,,b,", []string{"a", "b"}},
		{"empty input", "", nil},
		{"only commas", ",,,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.input))
		})
	}
}

func TestCompileFilters_Empty(t *testing.T) {
	conditions, args, next := CompileFilters(Filters{}, 1)
	assert.Empty(t, conditions)
	assert.Empty(t, args)
	assert.Equal(t, 1, next)
}

func TestCompileFilters_All(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	f := Filters{
		Types:      []string{"product"},
		Categories: []string{"electronics", "office"},
		Tags:       []string{"keyboard"},
		PriceMin:   floatPtr(100),
		PriceMax:   floatPtr(300),
		DateFrom:   timePtr(from),
		DateTo:     timePtr(to),
	}

	conditions, args, next := CompileFilters(f, 1)

	require.Len(t, conditions, 7)
	assert.Equal(t, "entity_type = ANY($1)", conditions[0])
	assert.Equal(t, "category = ANY($2)", conditions[1])
	assert.Equal(t, "tags @> $3", conditions[2])
	assert.Equal(t, "price >= $4", conditions[3])
	assert.Equal(t, "price <= $5", conditions[4])
	assert.Equal(t, "published_date >= $6", conditions[5])
	assert.Equal(t, "published_date < $7", conditions[6])
	require.Len(t, args, 7)
	assert.Equal(t, 8, next)
}

func TestCompileFilters_UpperDateBoundIsInclusive(t *testing.T) {
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	conditions, args, _ := CompileFilters(Filters{DateTo: timePtr(to)}, 1)

	require.Len(t, conditions, 1)
	assert.Equal(t, "published_date < $1", conditions[0])
	// The bound advances to the start of the next day, so records published
	// any time on the 30th still match.
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), args[0])
}

func TestCompileFilters_PlaceholdersStartAtArgIndex(t *testing.T) {
	conditions, _, next := CompileFilters(Filters{Types: []string{"article"}}, 5)
	require.Len(t, conditions, 1)
	assert.Equal(t, "entity_type = ANY($5)", conditions[0])
	assert.Equal(t, 6, next)
}
