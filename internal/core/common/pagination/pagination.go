package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const MaxPerPage = 100

// Params is a 1-based page request.
type Params struct {
	Page    int
	PerPage int
}

// Meta describes the page returned to the client.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// Page is a slice of items plus the metadata needed to fetch neighbours.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

func New(page, perPage, defaultPerPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	// keep (page-1)*perPage within an int32 offset
	if maxPage := math.MaxInt32/perPage + 1; page > maxPage {
		page = maxPage
	}
	return Params{Page: page, PerPage: perPage}
}

// FromRequest reads ?page= and ?per_page=, ignoring malformed values.
func FromRequest(r *http.Request, defaultPerPage int) Params {
	page, perPage := 1, 0

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil {
			page = p
		}
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil {
			perPage = pp
		}
	}

	return New(page, perPage, defaultPerPage)
}

func (p Params) Limit() int {
	return p.PerPage
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func NewMeta(p Params, total int64) Meta {
	lastPage := 1
	if total > 0 && p.PerPage > 0 {
		lastPage = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return Meta{
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Meta: NewMeta(p, total)}
}
