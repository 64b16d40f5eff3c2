package shared

import (
	"net/http"
	"strconv"
)

// Sort directions accepted on list endpoints.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPerPage applies when a list request omits per_page.
const DefaultPerPage = 20

// ListQuery carries the common paging/sorting/soft-delete parameters every
// collection endpoint accepts.
type ListQuery struct {
	Page        int
	PerPage     int
	SortBy      string
	SortDir     string
	ShowDeleted bool
}

// Normalize clamps paging values and fills in the resource's default sort key.
func (q ListQuery) Normalize(defaultSort string) ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.SortBy == "" {
		q.SortBy = defaultSort
	}
	if q.SortDir != SortDesc {
		q.SortDir = SortAsc
	}
	return q
}

// Offset returns the window start for the current page.
func (q ListQuery) Offset() int {
	offset := (q.Page - 1) * q.PerPage
	if offset < 0 {
		return 0
	}
	return offset
}

// ParseListQuery reads paging parameters from the request query string.
func ParseListQuery(r *http.Request) ListQuery {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return ListQuery{
		Page:        page,
		PerPage:     perPage,
		SortBy:      r.URL.Query().Get("sort_by"),
		SortDir:     r.URL.Query().Get("sort_order"),
		ShowDeleted: r.URL.Query().Get("show_deleted") == "true",
	}
}
