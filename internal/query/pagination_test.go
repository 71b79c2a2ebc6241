package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageSize(t *testing.T) {
	for _, n := range []int{4, 5, 10} {
		size, ok := ParsePageSize(n)
		assert.True(t, ok)
		assert.Equal(t, PageSize(n), size)
	}
	for _, n := range []int{0, -5, 3, 6, 100} {
		size, ok := ParsePageSize(n)
		assert.False(t, ok)
		assert.Equal(t, DefaultPageSize, size)
	}
}

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name       string
		req        PageRequest
		total      int64
		page       int
		perPage    int
		offset     int
		totalPages int
	}{
		{"defaults", PageRequest{}, 12, 1, 5, 0, 3},
		{"page beyond end clamps", PageRequest{Page: 99, PerPage: 5}, 3, 1, 5, 0, 1},
		{"last page", PageRequest{Page: 3, PerPage: 4}, 10, 3, 4, 8, 3},
		{"clamp to last", PageRequest{Page: 7, PerPage: 10}, 25, 3, 10, 20, 3},
		{"no rows", PageRequest{Page: 4, PerPage: 10}, 0, 1, 10, 0, 0},
		{"negative page", PageRequest{Page: -2, PerPage: 4}, 9, 1, 4, 0, 3},
		{"size outside allow-list", PageRequest{Page: 2, PerPage: 50}, 12, 2, 5, 5, 3},
		{"exact multiple", PageRequest{Page: 2, PerPage: 5}, 10, 2, 5, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePage(tt.req, tt.total)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.perPage, got.PerPage)
			assert.Equal(t, tt.offset, got.Offset)
			assert.Equal(t, tt.totalPages, got.TotalPages)
			assert.Equal(t, tt.total, got.Total)
		})
	}
}

func TestResolvePage_Invariants(t *testing.T) {
	for total := int64(0); total <= 40; total++ {
		for _, size := range PageSizes {
			for page := -1; page <= 12; page++ {
				got := ResolvePage(PageRequest{Page: page, PerPage: int(size)}, total)

				assert.GreaterOrEqual(t, got.Offset, 0)
				assert.Equal(t, int(size), got.PerPage)
				assert.Equal(t, (got.Page-1)*got.PerPage, got.Offset)
				assert.GreaterOrEqual(t, got.Page, 1)
				assert.LessOrEqual(t, got.Page, max(got.TotalPages, 1))
				if got.TotalPages > 0 {
					assert.LessOrEqual(t, got.Page, got.TotalPages)
					assert.Less(t, int64(got.Page*got.PerPage-got.PerPage), total)
				}
			}
		}
	}
}
