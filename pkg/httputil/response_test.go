package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		totalItem int64
		wantPages int
	}{
		{"exact fit", 1, 10, 30, 3},
		{"partial last page", 1, 10, 31, 4},
		{"single item", 1, 10, 1, 1},
		{"empty", 1, 10, 0, 0},
		{"limit one", 5, 1, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMeta(tt.page, tt.limit, tt.totalItem)
			assert.Equal(t, tt.totalItem, meta.TotalItem)
			assert.Equal(t, tt.wantPages, meta.TotalPage)
			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.page, meta.Page)
		})
	}
}
