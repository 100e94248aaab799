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
	"github.com/erpdesk/erpdesk.go/pkg/validate"
	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

const reportsPath = "/financereports"

// FinanceReports is the report subsystem over /financereports, including the
// long-running generate call and the quick preset reports.
type FinanceReports struct {
	tc    *transport.Client
	val   *validate.StructValidator
	log   logger.Logger
	store *store.Store[models.FinanceReport]
}

func newFinanceReports(tc *transport.Client, val *validate.StructValidator, log logger.Logger) *FinanceReports {
	return &FinanceReports{
		tc:  tc,
		val: val,
		log: log,
		store: store.New(store.Options[models.FinanceReport]{
			Identity: func(r models.FinanceReport) int64 { return r.ID },
			PageSize: constants.DefaultPageSize,
			Logger:   log,
		}),
	}
}

// State returns the current snapshot of the report store.
func (s *FinanceReports) State() store.State[models.FinanceReport] {
	return s.store.Snapshot()
}

// Subscribe registers a listener for every state transition.
func (s *FinanceReports) Subscribe(fn func(store.State[models.FinanceReport])) (cancel func()) {
	return s.store.Subscribe(fn)
}

// SetFilters merges a partial filter set and resets to page 1.
func (s *FinanceReports) SetFilters(f models.Filters) {
	s.store.Dispatch(store.SetFilters{Filters: f})
}

// SetSorting replaces the sort descriptor.
func (s *FinanceReports) SetSorting(by string, ascending bool) {
	s.store.Dispatch(store.SetSorting{By: by, Ascending: ascending})
}

// SetPage moves the paging window.
func (s *FinanceReports) SetPage(page int) {
	s.store.Dispatch(store.SetPagination{Page: page})
}

// Reset returns the store to its initial state.
func (s *FinanceReports) Reset() {
	s.store.Dispatch(store.ResetState{})
}

// List fetches one page of reports. Stale responses overtaken by a newer
// List call are discarded.
func (s *FinanceReports) List(ctx context.Context, overrides models.Filters) ([]models.FinanceReport, error) {
	reqID := s.store.NextRequestID()
	st := s.store.Snapshot()
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	q := queryParams(st.Filters.Merge(overrides), st.Sort, st.Pagination)
	data, err := s.tc.Call(ctx, http.MethodGet, reportsPath, q, nil)
	if !s.store.IsCurrentRequest(reqID) {
		s.log.Debug("discarding stale report list response", "request_id", reqID)
		return nil, constants.ErrStaleResponse
	}
	if err != nil {
		return nil, fail(s.store, err)
	}

	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	items := models.DecodeFinanceReports(wire.Collection(m, "Reports", "Items"))
	pagination := models.DecodePagination(wire.Object(m, "Paginations", "Pagination"))
	if pagination.PageSize == 0 {
		pagination.PageSize = st.Pagination.PageSize
	}
	s.store.Dispatch(store.SetList[models.FinanceReport]{Items: items, Pagination: &pagination})
	return items, nil
}

// Get fetches one report into the current-entity slot.
func (s *FinanceReports) Get(ctx context.Context, id int64) (*models.FinanceReport, error) {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodGet, fmt.Sprintf("%s/%d", reportsPath, id), nil, nil)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	rep := models.DecodeFinanceReport(m)
	s.store.Dispatch(store.SetCurrent[models.FinanceReport]{Entity: &rep})
	return &rep, nil
}

// Create validates the request locally (name, type and date range are
// required before any network call) and optimistically prepends the created
// report.
func (s *FinanceReports) Create(ctx context.Context, req models.ReportRequest) (*models.FinanceReport, error) {
	if err := s.val.Validate(req); err != nil {
		return nil, fail(s.store, err)
	}
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodPost, reportsPath, nil, req)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	rep := models.DecodeFinanceReport(m)
	s.store.Dispatch(store.AddEntity[models.FinanceReport]{Entity: rep})
	return &rep, nil
}

// Generate runs the long-running report generation call under its own 120s
// deadline and the separate Generating flag, so the UI can show a distinct
// indicator while ordinary list calls stay snappy.
func (s *FinanceReports) Generate(ctx context.Context, req models.ReportRequest) (*models.FinanceReport, error) {
	if err := s.val.Validate(req); err != nil {
		return nil, fail(s.store, err)
	}
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetGenerating{Generating: true})

	genCtx, cancel := context.WithTimeout(ctx, constants.GenerateTimeout)
	defer cancel()

	data, err := s.tc.Call(genCtx, http.MethodPost, reportsPath+"/generate", nil, req)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	rep := models.DecodeFinanceReport(m)
	s.store.Dispatch(store.AddEntity[models.FinanceReport]{Entity: rep})
	s.store.Dispatch(store.SetGenerating{Generating: false})
	return &rep, nil
}

// Quick fetches one of the backend's preset quick reports by type.
func (s *FinanceReports) Quick(ctx context.Context, reportType string) (*models.FinanceReport, error) {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodGet, reportsPath+"/quick/"+reportType, nil, nil)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	rep := models.DecodeFinanceReport(m)
	s.store.Dispatch(store.SetCurrent[models.FinanceReport]{Entity: &rep})
	return &rep, nil
}

// Remove deletes the report and optimistically filters it out of state.
func (s *FinanceReports) Remove(ctx context.Context, id int64) error {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	if _, err := s.tc.Call(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", reportsPath, id), nil, nil); err != nil {
		return fail(s.store, err)
	}
	s.store.Dispatch(store.RemoveEntity{ID: id})
	return nil
}
