// Package store holds one subsystem's client-side state behind a reducer.
// Dispatch is the sole mutation point: every transition is a pure function of
// the previous snapshot and one action, serialized under a single writer, so
// subscribers always observe whole transitions and never torn state.
package store

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
)

// Options configures a Store.
type Options[T any] struct {
	// Identity extracts the server-assigned id of an entity. Required for
	// ReplaceEntity and RemoveEntity to find their target.
	Identity func(T) int64
	// Filters is the store's default filter set, restored by ResetFilters.
	Filters models.Filters
	// PageSize defaults to constants.DefaultPageSize when zero.
	PageSize int
	// Logger receives the unhandled-action warnings. Nil disables them.
	Logger logger.Logger
}

// Store owns the state of one entity kind for the lifetime of its scope.
// Construct it once per logical scope and pass it explicitly; there is no
// ambient registry.
type Store[T any] struct {
	mu        sync.Mutex
	state     State[T]
	initial   State[T]
	identity  func(T) int64
	log       logger.Logger
	listeners map[int]func(State[T])
	nextSub   int

	// reqSeq hands out monotonic request ids so a list response overtaken by
	// a newer request can be recognized as stale and discarded.
	reqSeq atomic.Uint64
	// refreshing is the fan-out re-entrancy guard, checked-and-set as one
	// step before a refresh schedules any work.
	refreshing atomic.Bool
}

// New builds a Store in its initial state: empty list, no current entity,
// default filters, page 1, no error.
func New[T any](opts Options[T]) *Store[T] {
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = constants.DefaultPageSize
	}
	filters := opts.Filters
	if filters == nil {
		filters = models.Filters{}
	}
	initial := State[T]{
		Sections: map[string]any{},
		Filters:  filters.Clone(),
		Pagination: models.Pagination{
			Page:     1,
			PageSize: pageSize,
		},
	}
	return &Store[T]{
		state:     initial,
		initial:   initial,
		identity:  opts.Identity,
		log:       opts.Logger,
		listeners: map[int]func(State[T]){},
	}
}

// Snapshot returns the current state. The snapshot is safe to keep: the
// reducer never mutates committed collections.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies one action and notifies subscribers with the resulting
// snapshot. Notification happens outside the lock so listeners may dispatch
// follow-up actions.
func (s *Store[T]) Dispatch(action Action) {
	s.mu.Lock()
	s.state = s.reduce(s.state, action)
	snapshot := s.state
	listeners := make([]func(State[T]), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Subscribe registers a listener for every committed transition and returns
// its cancel function.
func (s *Store[T]) Subscribe(fn func(State[T])) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// NextRequestID reserves the next request generation. A response is only
// committed while its id is still current; see IsCurrentRequest.
func (s *Store[T]) NextRequestID() uint64 {
	return s.reqSeq.Add(1)
}

// IsCurrentRequest reports whether no newer request has been issued since id
// was reserved.
func (s *Store[T]) IsCurrentRequest(id uint64) bool {
	return s.reqSeq.Load() == id
}

// TryBeginRefresh atomically claims the fan-out refresh slot. It returns
// false when a refresh is already in flight, in which case the caller must
// skip, not queue.
func (s *Store[T]) TryBeginRefresh() bool {
	return s.refreshing.CompareAndSwap(false, true)
}

// EndRefresh releases the fan-out refresh slot.
func (s *Store[T]) EndRefresh() {
	s.refreshing.Store(false)
}

// reduce is the single state-transition function. It is pure with respect to
// the snapshot: inputs are never mutated, unknown actions return the snapshot
// unchanged.
func (s *Store[T]) reduce(st State[T], action Action) State[T] {
	switch act := action.(type) {
	case SetLoading:
		st.Loading = act.Loading

	case SetGenerating:
		st.Generating = act.Generating

	case SetError:
		st.Error = act.Message
		st.Loading = false
		st.Generating = false

	case ClearError:
		st.Error = ""

	case SetList[T]:
		st.Items = act.Items
		if act.Pagination != nil {
			st.Pagination = act.Pagination.Recalced()
		}
		st = committed(st)

	case SetCurrent[T]:
		st.Current = act.Entity
		st = committed(st)

	case SetSection:
		sections := make(map[string]any, len(st.Sections)+1)
		for k, v := range st.Sections {
			sections[k] = v
		}
		sections[act.Name] = act.Value
		st.Sections = sections
		// A section lands mid-fan-out; siblings may still be in flight, so
		// Loading is left alone here.
		st.Error = ""
		st.LastUpdated = time.Now()

	case SetFilters:
		st.Filters = st.Filters.Merge(act.Filters)
		st.Pagination.Page = 1

	case ResetFilters:
		st.Filters = s.initial.Filters.Clone()
		st.Pagination.Page = 1

	case SetSorting:
		st.Sort = models.Sort{By: act.By, Ascending: act.Ascending}

	case SetPagination:
		if act.Page > 0 {
			st.Pagination.Page = act.Page
		}
		if act.PageSize > 0 {
			st.Pagination.PageSize = act.PageSize
			st.Pagination = st.Pagination.Recalced()
		}

	case AddEntity[T]:
		items := make([]T, 0, len(st.Items)+1)
		items = append(items, act.Entity)
		items = append(items, st.Items...)
		st.Items = items
		st.Pagination.TotalItems++
		st.Pagination = st.Pagination.Recalced()
		st = committed(st)

	case ReplaceEntity[T]:
		idx := s.indexOf(st.Items, s.entityID(act.Entity))
		if idx < 0 {
			if st.Current != nil && s.entityID(*st.Current) == s.entityID(act.Entity) {
				entity := act.Entity
				st.Current = &entity
				st = committed(st)
			}
			break
		}
		items := make([]T, len(st.Items))
		copy(items, st.Items)
		items[idx] = act.Entity
		st.Items = items
		if st.Current != nil && s.entityID(*st.Current) == s.entityID(act.Entity) {
			entity := act.Entity
			st.Current = &entity
		}
		st = committed(st)

	case RemoveEntity:
		idx := s.indexOf(st.Items, act.ID)
		if idx < 0 {
			break
		}
		items := make([]T, 0, len(st.Items)-1)
		items = append(items, st.Items[:idx]...)
		items = append(items, st.Items[idx+1:]...)
		st.Items = items
		if st.Pagination.TotalItems > 0 {
			st.Pagination.TotalItems--
		}
		st.Pagination = st.Pagination.Recalced()
		st = committed(st)

	case ResetState:
		st = s.initial
		st.Filters = s.initial.Filters.Clone()
		st.Sections = map[string]any{}

	default:
		if s.log != nil {
			s.log.Warn("unhandled store action", "action", fmt.Sprintf("%T", action))
		}
	}
	return st
}

// committed applies the shared payload-commit invariants: the error is
// cleared, loading ends, and the snapshot is stamped.
func committed[T any](st State[T]) State[T] {
	st.Error = ""
	st.Loading = false
	st.LastUpdated = time.Now()
	return st
}

func (s *Store[T]) entityID(entity T) int64 {
	if s.identity == nil {
		return 0
	}
	return s.identity(entity)
}

func (s *Store[T]) indexOf(items []T, id int64) int {
	if s.identity == nil {
		return -1
	}
	for i, it := range items {
		if s.identity(it) == id {
			return i
		}
	}
	return -1
}
