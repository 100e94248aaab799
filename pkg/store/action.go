package store

import (
	"github.com/erpdesk/erpdesk.go/pkg/models"
)

// Action is the closed set of state transitions a store accepts. The reducer
// matches exhaustively over these; anything else is logged and ignored, since
// call sites may legitimately dispatch against a store that has since been
// reset.
type Action interface {
	isAction()
}

// SetLoading flips the list-loading flag.
type SetLoading struct {
	Loading bool
}

// SetGenerating flips the long-running-operation flag, kept separate from
// Loading so report generation gets its own indicator.
type SetGenerating struct {
	Generating bool
}

// SetError records a failure message. It always clears the loading and
// generating flags in the same transition.
type SetError struct {
	Message string
}

// ClearError drops any recorded failure message.
type ClearError struct{}

// SetList commits a fetched page of entities, replacing the list and,
// when present, the pagination descriptor in one transition.
type SetList[T any] struct {
	Items      []T
	Pagination *models.Pagination
}

// SetCurrent commits a fetched single entity into the current-entity slot.
type SetCurrent[T any] struct {
	Entity *T
}

// SetSection commits one named dashboard section independently of the others,
// so a fan-out refresh can land partial results.
type SetSection struct {
	Name  string
	Value any
}

// SetFilters shallow-merges a partial filter set, last write wins per key,
// and resets the page to 1.
type SetFilters struct {
	Filters models.Filters
}

// ResetFilters restores the store's default filter set and resets the page.
type ResetFilters struct{}

// SetSorting replaces the sort descriptor.
type SetSorting struct {
	By        string
	Ascending bool
}

// SetPagination patches the paging window. Zero fields are left unchanged.
type SetPagination struct {
	Page     int
	PageSize int
}

// AddEntity optimistically prepends a created entity and bumps TotalItems.
type AddEntity[T any] struct {
	Entity T
}

// ReplaceEntity swaps the entity with the same identity in place, for
// optimistic merges after an update. Absent identities leave state unchanged.
type ReplaceEntity[T any] struct {
	Entity T
}

// RemoveEntity drops the entity with the given identity and decrements
// TotalItems. An absent identity leaves state unchanged.
type RemoveEntity struct {
	ID int64
}

// ResetState returns the store to its initial state without tearing it down.
type ResetState struct{}

func (SetLoading) isAction()       {}
func (SetGenerating) isAction()    {}
func (SetError) isAction()         {}
func (ClearError) isAction()       {}
func (SetList[T]) isAction()       {}
func (SetCurrent[T]) isAction()    {}
func (SetSection) isAction()       {}
func (SetFilters) isAction()       {}
func (ResetFilters) isAction()     {}
func (SetSorting) isAction()       {}
func (SetPagination) isAction()    {}
func (AddEntity[T]) isAction()     {}
func (ReplaceEntity[T]) isAction() {}
func (RemoveEntity) isAction()     {}
func (ResetState) isAction()       {}
