package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTextQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single term", "keyboard", "keyboard:*"},
		{"multiple terms", "ergonomic keyboard", "ergonomic:* & keyboard:*"},
		{"extra whitespace", "  ergonomic   keyboard  ", "ergonomic:* & keyboard:*"},
		{"tabs and newlines", "ergonomic\tkeyboard\nsplit", "ergonomic:* & keyboard:* & split:*"},
		{"empty", "", ""},
		{"only whitespace", "   \t  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTextQuery(tt.input))
		})
	}
}
