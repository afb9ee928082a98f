package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
	}{
		{"defaults on empty", "", "", 50, 0},
		{"explicit values", "20", "40", 20, 40},
		{"limit clamped to max", "500", "0", 100, 0},
		{"zero limit falls back", "0", "0", 50, 0},
		{"negative values fall back", "-5", "-10", 50, 0},
		{"garbage falls back", "abc", "xyz", 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := ParsePagination(tt.limit, tt.offset)
			require.Equal(t, tt.wantLimit, page.Limit)
			require.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}
