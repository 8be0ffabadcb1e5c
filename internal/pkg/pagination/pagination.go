package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

type Query struct {
	Page    int
	PerPage int
}

// FromContext reads page/perPage query params, clamping to sane bounds.
func FromContext(c *gin.Context) Query {
	q := Query{Page: defaultPage, PerPage: defaultPerPage}

	if v, err := strconv.Atoi(c.DefaultQuery("page", "")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("perPage", "")); err == nil && v > 0 {
		q.PerPage = v
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PerPage
}

type Result[T any] struct {
	Records      []T   `json:"records"`
	TotalRecords int64 `json:"totalRecords"`
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	PerPage      int   `json:"perPage"`
}

// Structure shapes one page of records. totalPages is ceil(total/perPage),
// never below 1 even for an empty set.
func Structure[T any](records []T, total int64, q Query) Result[T] {
	totalPages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if records == nil {
		records = []T{}
	}
	return Result[T]{
		Records:      records,
		TotalRecords: total,
		CurrentPage:  q.Page,
		TotalPages:   totalPages,
		PerPage:      q.PerPage,
	}
}
