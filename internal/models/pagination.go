package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// TotalPages derives the page count, never less than 1.
func (p Pagination) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	pages := (p.TotalCount + p.PageSize - 1) / p.PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// FromRecord is the ordinal of the first record on the page, 0 when empty.
func (p Pagination) FromRecord() int {
	if p.TotalCount == 0 {
		return 0
	}
	return (p.Page-1)*p.PageSize + 1
}

// ToRecord is the ordinal of the last record on the page.
func (p Pagination) ToRecord() int {
	to := p.Page * p.PageSize
	if to > p.TotalCount {
		to = p.TotalCount
	}
	return to
}

// PageItem is one entry of a windowed page-number sequence. Either Page is
// set, or Ellipsis is true.
type PageItem struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageWindow computes the visible page-button sequence for a pager. Up to
// seven pages are listed in full; beyond that the first and last pages frame
// a three-wide window around the current page, with ellipses collapsing the
// hidden ranges.
func PageWindow(page, totalPages int) []PageItem {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	if totalPages <= 7 {
		items := make([]PageItem, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			items = append(items, PageItem{Page: i})
		}
		return items
	}

	items := []PageItem{{Page: 1}}
	if page > 3 {
		items = append(items, PageItem{Ellipsis: true})
	}

	start := page - 1
	if start < 2 {
		start = 2
	}
	end := page + 1
	if end > totalPages-1 {
		end = totalPages - 1
	}
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Page: i})
	}

	if page < totalPages-2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	items = append(items, PageItem{Page: totalPages})
	return items
}
