package erpdesk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
	"github.com/erpdesk/erpdesk.go/pkg/store"
	"github.com/erpdesk/erpdesk.go/pkg/transport"
	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

const systemLogsPath = "/systemlogs"

// SystemLogs is the read-only system-log subsystem: paged history over
// /systemlogs with level/source/search filters. For the live feed, see
// Client.LogStream.
type SystemLogs struct {
	tc    *transport.Client
	log   logger.Logger
	store *store.Store[models.SystemLog]
}

func newSystemLogs(tc *transport.Client, log logger.Logger) *SystemLogs {
	return &SystemLogs{
		tc:  tc,
		log: log,
		store: store.New(store.Options[models.SystemLog]{
			Identity: func(l models.SystemLog) int64 { return l.ID },
			PageSize: constants.DefaultPageSize,
			Logger:   log,
		}),
	}
}

// State returns the current snapshot of the log store.
func (s *SystemLogs) State() store.State[models.SystemLog] {
	return s.store.Snapshot()
}

// Subscribe registers a listener for every state transition.
func (s *SystemLogs) Subscribe(fn func(store.State[models.SystemLog])) (cancel func()) {
	return s.store.Subscribe(fn)
}

// SetFilters merges a partial filter set (level, source, search) and resets
// to page 1.
func (s *SystemLogs) SetFilters(f models.Filters) {
	s.store.Dispatch(store.SetFilters{Filters: f})
}

// SetPage moves the paging window.
func (s *SystemLogs) SetPage(page int) {
	s.store.Dispatch(store.SetPagination{Page: page})
}

// Reset returns the store to its initial state.
func (s *SystemLogs) Reset() {
	s.store.Dispatch(store.ResetState{})
}

// List fetches one page of log entries. Stale responses are discarded.
func (s *SystemLogs) List(ctx context.Context, overrides models.Filters) ([]models.SystemLog, error) {
	reqID := s.store.NextRequestID()
	st := s.store.Snapshot()
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	q := queryParams(st.Filters.Merge(overrides), st.Sort, st.Pagination)
	data, err := s.tc.Call(ctx, http.MethodGet, systemLogsPath, q, nil)
	if !s.store.IsCurrentRequest(reqID) {
		s.log.Debug("discarding stale system log response", "request_id", reqID)
		return nil, constants.ErrStaleResponse
	}
	if err != nil {
		return nil, fail(s.store, err)
	}

	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	items := models.DecodeSystemLogs(wire.Collection(m, "Logs", "Items"))
	pagination := models.DecodePagination(wire.Object(m, "Paginations", "Pagination"))
	if pagination.PageSize == 0 {
		pagination.PageSize = st.Pagination.PageSize
	}
	s.store.Dispatch(store.SetList[models.SystemLog]{Items: items, Pagination: &pagination})
	return items, nil
}

// Get fetches one log entry into the current-entity slot.
func (s *SystemLogs) Get(ctx context.Context, id int64) (*models.SystemLog, error) {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodGet, fmt.Sprintf("%s/%d", systemLogsPath, id), nil, nil)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	entry := models.DecodeSystemLog(m)
	s.store.Dispatch(store.SetCurrent[models.SystemLog]{Entity: &entry})
	return &entry, nil
}
