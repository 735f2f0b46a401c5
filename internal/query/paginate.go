package query

import (
	"math"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Meta is the pagination block of a list response.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Pagination is a validated page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page to 1 and requires 0 < limit <= maxLimit.
// A maxLimit of 0 disables the upper bound.
func NewPagination(page, limit, maxLimit int) (Pagination, error) {
	if limit <= 0 {
		return Pagination{}, entity.NewInvalidQuery("limit", "must be a positive integer")
	}
	if maxLimit > 0 && limit > maxLimit {
		return Pagination{}, entity.NewInvalidQuery("limit", "must not exceed %d", maxLimit)
	}
	if page < 1 {
		page = 1
	}
	return Pagination{Page: page, Limit: limit}, nil
}

// Offset is the number of records before the first one on the page. It
// saturates at math.MaxInt, which is past the end of any collection.
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta reports the page metadata for a collection of total records.
func (p Pagination) Meta(total int64) Meta {
	limit := int64(p.Limit)
	return Meta{
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: int((total + limit - 1) / limit),
	}
}

// PageOf slices an ordered sequence. Pages past the end are empty, never nil.
func PageOf(leads []*entity.Lead, p Pagination) []*entity.Lead {
	start := p.Offset()
	if start < 0 || start >= len(leads) {
		return []*entity.Lead{}
	}
	end := start + min(p.Limit, len(leads)-start)
	return leads[start:end]
}
