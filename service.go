package erpdesk

import (
	"strconv"

	"github.com/erpdesk/erpdesk.go/pkg/models"
	"github.com/erpdesk/erpdesk.go/pkg/store"
)

// UpdatePolicy decides what a service does with local state after a
// successful update. RefetchAfterUpdate is the safe default for anything
// carrying server-computed fields; OptimisticMerge replaces the in-memory
// record with the server's returned version without re-fetching the list.
type UpdatePolicy int

const (
	RefetchAfterUpdate UpdatePolicy = iota
	OptimisticMerge
)

// queryParams builds the list-call query string from filter, sort and paging
// state. Empty filter values mean "no constraint" and are dropped.
func queryParams(f models.Filters, sort models.Sort, p models.Pagination) map[string]string {
	q := map[string]string{
		"page":     strconv.Itoa(p.Page),
		"pageSize": strconv.Itoa(p.PageSize),
	}
	for k, v := range f {
		if v != "" {
			q[k] = v
		}
	}
	if sort.By != "" {
		q["sortBy"] = sort.By
		q["sortAscending"] = strconv.FormatBool(sort.Ascending)
	}
	return q
}

// fail records err in the store (clearing loading per the reducer) and hands
// it back, so callers get both the global banner and a local branch point.
func fail[T any](st *store.Store[T], err error) error {
	st.Dispatch(store.SetError{Message: err.Error()})
	return err
}
