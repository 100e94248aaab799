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

const companiesPath = "/companies"

// Companies is the tenant-management subsystem over /companies. Company
// records carry no server-computed fields, so updates merge the server's
// returned record optimistically instead of re-fetching the page.
type Companies struct {
	tc     *transport.Client
	val    *validate.StructValidator
	log    logger.Logger
	store  *store.Store[models.Company]
	policy UpdatePolicy
}

func newCompanies(tc *transport.Client, val *validate.StructValidator, log logger.Logger) *Companies {
	return &Companies{
		tc:  tc,
		val: val,
		log: log,
		store: store.New(store.Options[models.Company]{
			Identity: func(c models.Company) int64 { return c.ID },
			PageSize: constants.DefaultPageSize,
			Logger:   log,
		}),
		policy: OptimisticMerge,
	}
}

// State returns the current snapshot of the company store.
func (s *Companies) State() store.State[models.Company] {
	return s.store.Snapshot()
}

// Subscribe registers a listener for every state transition.
func (s *Companies) Subscribe(fn func(store.State[models.Company])) (cancel func()) {
	return s.store.Subscribe(fn)
}

// SetFilters merges a partial filter set and resets to page 1.
func (s *Companies) SetFilters(f models.Filters) {
	s.store.Dispatch(store.SetFilters{Filters: f})
}

// SetSorting replaces the sort descriptor.
func (s *Companies) SetSorting(by string, ascending bool) {
	s.store.Dispatch(store.SetSorting{By: by, Ascending: ascending})
}

// SetPage moves the paging window.
func (s *Companies) SetPage(page int) {
	s.store.Dispatch(store.SetPagination{Page: page})
}

// Reset returns the store to its initial state.
func (s *Companies) Reset() {
	s.store.Dispatch(store.ResetState{})
}

// List fetches one page of companies. Stale responses are discarded.
func (s *Companies) List(ctx context.Context, overrides models.Filters) ([]models.Company, error) {
	reqID := s.store.NextRequestID()
	st := s.store.Snapshot()
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	q := queryParams(st.Filters.Merge(overrides), st.Sort, st.Pagination)
	data, err := s.tc.Call(ctx, http.MethodGet, companiesPath, q, nil)
	if !s.store.IsCurrentRequest(reqID) {
		s.log.Debug("discarding stale company list response", "request_id", reqID)
		return nil, constants.ErrStaleResponse
	}
	if err != nil {
		return nil, fail(s.store, err)
	}

	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	items := models.DecodeCompanies(wire.Collection(m, "Companies", "Items"))
	pagination := models.DecodePagination(wire.Object(m, "Paginations", "Pagination"))
	if pagination.PageSize == 0 {
		pagination.PageSize = st.Pagination.PageSize
	}
	s.store.Dispatch(store.SetList[models.Company]{Items: items, Pagination: &pagination})
	return items, nil
}

// Get fetches one company into the current-entity slot.
func (s *Companies) Get(ctx context.Context, id int64) (*models.Company, error) {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodGet, fmt.Sprintf("%s/%d", companiesPath, id), nil, nil)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	company := models.DecodeCompany(m)
	s.store.Dispatch(store.SetCurrent[models.Company]{Entity: &company})
	return &company, nil
}

// Create validates the payload locally and optimistically prepends the
// created company.
func (s *Companies) Create(ctx context.Context, req models.CompanyRequest) (*models.Company, error) {
	if err := s.val.Validate(req); err != nil {
		return nil, fail(s.store, err)
	}
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodPost, companiesPath, nil, req)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	company := models.DecodeCompany(m)
	s.store.Dispatch(store.AddEntity[models.Company]{Entity: company})
	return &company, nil
}

// Update writes the company and merges the server's returned record into
// state in place.
func (s *Companies) Update(ctx context.Context, id int64, req models.CompanyRequest) (*models.Company, error) {
	if err := s.val.Validate(req); err != nil {
		return nil, fail(s.store, err)
	}
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodPut, fmt.Sprintf("%s/%d", companiesPath, id), nil, req)
	if err != nil {
		return nil, fail(s.store, err)
	}

	var updated *models.Company
	if m := wire.Normalize(data); m != nil {
		company := models.DecodeCompany(m)
		updated = &company
	}
	if s.policy == OptimisticMerge && updated != nil {
		s.store.Dispatch(store.ReplaceEntity[models.Company]{Entity: *updated})
		return updated, nil
	}
	if _, err := s.List(ctx, nil); err != nil {
		return updated, err
	}
	return updated, nil
}

// Remove deletes the company and optimistically filters it out of state.
func (s *Companies) Remove(ctx context.Context, id int64) error {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	if _, err := s.tc.Call(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", companiesPath, id), nil, nil); err != nil {
		return fail(s.store, err)
	}
	s.store.Dispatch(store.RemoveEntity{ID: id})
	return nil
}
