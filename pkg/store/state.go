package store

import (
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/models"
)

// State is one immutable snapshot of an entity store. The reducer never
// mutates a snapshot in place; every transition builds fresh collections, so
// a snapshot handed to a subscriber stays valid forever.
type State[T any] struct {
	// Items is the current page of entities, newest optimistic insert first.
	Items []T
	// Current is the entity loaded by a get-by-id call, nil before the first.
	Current *T
	// Sections holds named dashboard datasets committed independently by
	// fan-out refreshes.
	Sections map[string]any

	Filters    models.Filters
	Sort       models.Sort
	Pagination models.Pagination

	// Loading is true while a list/get/create/update/remove call is in
	// flight. Generating is the separate flag for long-running report
	// generation.
	Loading    bool
	Generating bool

	// Error is the last failure message, empty when none. Committing any
	// entity payload clears it.
	Error string

	// LastUpdated is stamped whenever an entity payload is committed.
	LastUpdated time.Time
}

// HasError reports whether a failure message is recorded.
func (s State[T]) HasError() bool {
	return s.Error != ""
}

// Section returns the named dashboard dataset, nil when absent.
func (s State[T]) Section(name string) any {
	return s.Sections[name]
}
