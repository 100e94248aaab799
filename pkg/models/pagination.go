package models

import (
	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// Pagination describes the server-driven paging window of a list. Page is
// 1-based. TotalPages is kept equal to ceil(TotalItems/PageSize) whenever
// PageSize is positive.
type Pagination struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Recalced returns a copy with TotalPages recomputed from TotalItems and
// PageSize.
func (p Pagination) Recalced() Pagination {
	if p.PageSize > 0 {
		p.TotalPages = (p.TotalItems + p.PageSize - 1) / p.PageSize
	}
	return p
}

func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// DecodePagination reads the envelope's Paginations block. The backend has
// emitted both CurrentPage and PageNumber over time; both spellings are
// accepted.
func DecodePagination(m map[string]any) Pagination {
	p := Pagination{
		Page:       wire.Int(m, "CurrentPage", "PageNumber"),
		PageSize:   wire.Int(m, "PageSize"),
		TotalItems: wire.Int(m, "TotalItems"),
		TotalPages: wire.Int(m, "TotalPages"),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.TotalPages == 0 {
		p = p.Recalced()
	}
	return p
}
