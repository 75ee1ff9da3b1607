// AngelaMos | 2026
// pagination_test.go

package core

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageParamsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageParams
		want PageParams
	}{
		{"defaults", PageParams{}, PageParams{Page: 1, Limit: 10}},
		{"negative", PageParams{Page: -3, Limit: -1}, PageParams{Page: 1, Limit: 10}},
		{"capped", PageParams{Page: 4, Limit: 500}, PageParams{Page: 4, Limit: 100}},
		{"kept", PageParams{Page: 2, Limit: 25}, PageParams{Page: 2, Limit: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	page := NewPage[int](nil, 0, PageParams{Page: 1, Limit: 10})
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.Meta.TotalPages)

	page = NewPage([]int{1, 2, 3}, 23, PageParams{Page: 3, Limit: 10})
	assert.Equal(t, PageMeta{
		TotalItems:   23,
		ItemCount:    3,
		ItemsPerPage: 10,
		TotalPages:   3,
		CurrentPage:  3,
	}, page.Meta)
	assert.Equal(t, 20, PageParams{Page: 3, Limit: 10}.Offset())
}

func TestParsePageParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/jobs?page=2&limit=abc&showDeleted=true", nil)

	params := ParsePageParams(req)
	assert.Equal(t, PageParams{Page: 2, Limit: 10}, params)
	assert.True(t, ParseBoolQuery(req, "showDeleted"))
	assert.False(t, ParseBoolQuery(req, "force"))
}

func TestParsePageParamsClampsHugePage(t *testing.T) {
	req := httptest.NewRequest("GET", "/jobs?page=9223372036854775807&limit=100", nil)

	params := ParsePageParams(req)
	assert.Equal(t, MaxPage, params.Page)
	assert.Equal(t, MaxLimit, params.Limit)
	assert.GreaterOrEqual(t, params.Offset(), 0)
}

func TestILikePattern(t *testing.T) {
	assert.Equal(t, `%100\%\_go%`, ILikePattern("100%_go"))
}

type softRecord struct {
	SoftDelete
}

func TestScope(t *testing.T) {
	rec := &softRecord{}
	assert.True(t, ActiveOnly.Visible(rec))

	rec.MarkDeleted(time.Now())
	assert.True(t, rec.IsDeleted())
	assert.False(t, ActiveOnly.Visible(rec))
	assert.True(t, WithDeleted.Visible(rec))

	rec.ClearDeleted()
	assert.False(t, rec.IsDeleted())

	assert.Equal(t, "j.deleted_at IS NULL", ActiveOnly.Predicate("j"))
	assert.Equal(t, "deleted_at IS NULL", ScopeFor(false).Predicate(""))
	assert.Equal(t, "TRUE", ScopeFor(true).Predicate("j"))
}
