package service

import (
	"math"

	"github.com/phrazzld/task-api/internal/domain"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is one slice of the task listing.
type Page struct {
	Items      []*domain.Task
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NormalizePagination clamps raw page and limit values. Callers pass 0 for
// absent or unparsable values.
//
//	page <= 0         -> 1
//	limit == 0        -> 10
//	limit < 0         -> 1
//	limit > 100       -> 100
func NormalizePagination(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 0:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of items skipped before page, saturating
// instead of overflowing for absurd page numbers.
func Offset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to show.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
