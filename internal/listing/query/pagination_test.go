package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name  string
		total int64
		page  int
		limit int
		want  PaginationMeta
	}{
		{
			name: "middle page", total: 25, page: 2, limit: 10,
			want: PaginationMeta{Total: 25, Page: 2, Limit: 10, TotalPages: 3, HasNext: true, HasPrev: true},
		},
		{
			name: "first page", total: 25, page: 1, limit: 10,
			want: PaginationMeta{Total: 25, Page: 1, Limit: 10, TotalPages: 3, HasNext: true, HasPrev: false},
		},
		{
			name: "last page", total: 25, page: 3, limit: 10,
			want: PaginationMeta{Total: 25, Page: 3, Limit: 10, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name: "exact multiple", total: 20, page: 2, limit: 10,
			want: PaginationMeta{Total: 20, Page: 2, Limit: 10, TotalPages: 2, HasNext: false, HasPrev: true},
		},
		{
			name: "empty result", total: 0, page: 1, limit: 10,
			want: PaginationMeta{Total: 0, Page: 1, Limit: 10, TotalPages: 0, HasNext: false, HasPrev: false},
		},
		{
			name: "page beyond range", total: 12, page: 5, limit: 10,
			want: PaginationMeta{Total: 12, Page: 5, Limit: 10, TotalPages: 2, HasNext: false, HasPrev: true},
		},
		{
			name: "single item", total: 1, page: 1, limit: 10,
			want: PaginationMeta{Total: 1, Page: 1, Limit: 10, TotalPages: 1, HasNext: false, HasPrev: false},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Paginate(tc.total, tc.page, tc.limit))
		})
	}
}
