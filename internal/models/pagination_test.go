package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationTotalPages(t *testing.T) {
	assert.Equal(t, 1, Pagination{Page: 1, PageSize: 20, TotalCount: 0}.TotalPages())
	assert.Equal(t, 1, Pagination{Page: 1, PageSize: 20, TotalCount: 20}.TotalPages())
	assert.Equal(t, 2, Pagination{Page: 1, PageSize: 20, TotalCount: 21}.TotalPages())
	assert.Equal(t, 5, Pagination{Page: 1, PageSize: 10, TotalCount: 43}.TotalPages())
	assert.Equal(t, 1, Pagination{Page: 1, PageSize: 0, TotalCount: 43}.TotalPages())
}

func TestPaginationRecordRange(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 10, TotalCount: 25}
	assert.Equal(t, 21, p.FromRecord())
	assert.Equal(t, 25, p.ToRecord())

	empty := Pagination{Page: 1, PageSize: 10, TotalCount: 0}
	assert.Equal(t, 0, empty.FromRecord())
	assert.Equal(t, 0, empty.ToRecord())
}

func pages(items []PageItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, -1)
		} else {
			out = append(out, it.Page)
		}
	}
	return out
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		name       string
		page       int
		totalPages int
		want       []int
	}{
		{"single page", 1, 1, []int{1}},
		{"all pages listed below threshold", 4, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{"middle of a long pager", 5, 10, []int{1, -1, 4, 5, 6, -1, 10}},
		{"near the start", 2, 10, []int{1, 2, 3, -1, 10}},
		{"near the end", 9, 10, []int{1, -1, 8, 9, 10}},
		{"first page of a long pager", 1, 20, []int{1, 2, -1, 20}},
		{"last page of a long pager", 20, 20, []int{1, -1, 19, 20}},
		{"page clamped to range", 99, 10, []int{1, -1, 9, 10}},
		{"zero total pages", 1, 0, []int{1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pages(PageWindow(tc.page, tc.totalPages)))
		})
	}
}
