package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationValidate(t *testing.T) {
	tests := []struct {
		name      string
		in        PaginationParams
		wantPage  int
		wantLimit int
	}{
		{"defaults kept", PaginationParams{Page: 2, Limit: 25}, 2, 25},
		{"zero page normalized", PaginationParams{Page: 0, Limit: 10}, 1, 10},
		{"negative page normalized", PaginationParams{Page: -3, Limit: 10}, 1, 10},
		{"zero limit normalized", PaginationParams{Page: 1, Limit: 0}, 1, 10},
		{"limit capped", PaginationParams{Page: 1, Limit: 500}, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Validate()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantLimit, tt.in.Limit)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 10}
	assert.Equal(t, 0, p.Offset())

	p = PaginationParams{Page: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestResponseBuilders(t *testing.T) {
	ok := Success(map[string]string{"k": "v"})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	withMeta := SuccessWithMeta([]int{1, 2}, &APIMeta{TotalItem: 2, TotalPage: 1, Limit: 10, Page: 1})
	assert.True(t, withMeta.Success)
	assert.Equal(t, int64(2), withMeta.Meta.TotalItem)

	bad := Error("NOT_FOUND", "team not found")
	assert.False(t, bad.Success)
	assert.Equal(t, "NOT_FOUND", bad.Error.Code)
	assert.Equal(t, "team not found", bad.Error.Message)
}
