// AngelaMos | 2026
// pagination.go

package core

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// MaxPage keeps (Page-1)*Limit inside an int32 OFFSET.
const MaxPage = math.MaxInt32 / MaxLimit

type PageParams struct {
	Page  int
	Limit int
}

func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageMeta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

type Page[T any] struct {
	Items []T
	Meta  PageMeta
}

// NewPage expects params to be normalized already.
func NewPage[T any](items []T, total int, params PageParams) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Page[T]{
		Items: items,
		Meta: PageMeta{
			TotalItems:   total,
			ItemCount:    len(items),
			ItemsPerPage: params.Limit,
			TotalPages:   totalPages,
			CurrentPage:  params.Page,
		},
	}
}

// MapPage converts the items of a page while keeping its meta.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Page[U]{Items: out, Meta: p.Meta}
}

func ParsePageParams(r *http.Request) PageParams {
	params := PageParams{
		Page:  parseIntQuery(r, "page", DefaultPage),
		Limit: parseIntQuery(r, "limit", DefaultLimit),
	}
	params.Normalize()
	return params
}

func ParseBoolQuery(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return err == nil && v
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// ILikePattern wraps s for a case-insensitive substring match.
func ILikePattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
