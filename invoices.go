package erpdesk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/analytics"
	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
	"github.com/erpdesk/erpdesk.go/pkg/store"
	"github.com/erpdesk/erpdesk.go/pkg/transport"
	"github.com/erpdesk/erpdesk.go/pkg/validate"
	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

const invoicesPath = "/invoices"

// Invoices is the invoice subsystem: CRUD operations over /invoices plus the
// analytics selectors the invoice dashboard renders.
type Invoices struct {
	tc     *transport.Client
	val    *validate.StructValidator
	log    logger.Logger
	store  *store.Store[models.Invoice]
	policy UpdatePolicy
}

func newInvoices(tc *transport.Client, val *validate.StructValidator, log logger.Logger) *Invoices {
	return &Invoices{
		tc:  tc,
		val: val,
		log: log,
		store: store.New(store.Options[models.Invoice]{
			Identity: func(i models.Invoice) int64 { return i.ID },
			PageSize: constants.DefaultPageSize,
			Logger:   log,
		}),
		// Invoice totals are server-computed, so updates re-fetch.
		policy: RefetchAfterUpdate,
	}
}

// State returns the current snapshot of the invoice store.
func (s *Invoices) State() store.State[models.Invoice] {
	return s.store.Snapshot()
}

// Subscribe registers a listener for every state transition.
func (s *Invoices) Subscribe(fn func(store.State[models.Invoice])) (cancel func()) {
	return s.store.Subscribe(fn)
}

// SetFilters merges a partial filter set and resets to page 1.
func (s *Invoices) SetFilters(f models.Filters) {
	s.store.Dispatch(store.SetFilters{Filters: f})
}

// ResetFilters restores the default filter set.
func (s *Invoices) ResetFilters() {
	s.store.Dispatch(store.ResetFilters{})
}

// SetSorting replaces the sort descriptor.
func (s *Invoices) SetSorting(by string, ascending bool) {
	s.store.Dispatch(store.SetSorting{By: by, Ascending: ascending})
}

// SetPage moves the paging window.
func (s *Invoices) SetPage(page int) {
	s.store.Dispatch(store.SetPagination{Page: page})
}

// Reset returns the store to its initial state.
func (s *Invoices) Reset() {
	s.store.Dispatch(store.ResetState{})
}

// List fetches one page of invoices using the store's filter, sort and
// paging state merged with overrides, and commits list and pagination in one
// transition. A response overtaken by a newer List call is discarded and
// reported as constants.ErrStaleResponse.
func (s *Invoices) List(ctx context.Context, overrides models.Filters) ([]models.Invoice, error) {
	reqID := s.store.NextRequestID()
	st := s.store.Snapshot()
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	q := queryParams(st.Filters.Merge(overrides), st.Sort, st.Pagination)
	data, err := s.tc.Call(ctx, http.MethodGet, invoicesPath, q, nil)
	// Staleness is checked before the error branch: an overtaken request must
	// not dispatch anything, not even its failure.
	if !s.store.IsCurrentRequest(reqID) {
		s.log.Debug("discarding stale invoice list response", "request_id", reqID)
		return nil, constants.ErrStaleResponse
	}
	if err != nil {
		return nil, fail(s.store, err)
	}

	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	items := models.DecodeInvoices(wire.Collection(m, "Invoices", "Items"))
	pagination := models.DecodePagination(wire.Object(m, "Paginations", "Pagination"))
	if pagination.PageSize == 0 {
		pagination.PageSize = st.Pagination.PageSize
	}
	s.store.Dispatch(store.SetList[models.Invoice]{Items: items, Pagination: &pagination})
	return items, nil
}

// Get fetches one invoice into the current-entity slot.
func (s *Invoices) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodGet, fmt.Sprintf("%s/%d", invoicesPath, id), nil, nil)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	inv := models.DecodeInvoice(m)
	s.store.Dispatch(store.SetCurrent[models.Invoice]{Entity: &inv})
	return &inv, nil
}

// Create validates the payload locally, posts it, and optimistically
// prepends the created invoice without a full re-fetch.
func (s *Invoices) Create(ctx context.Context, req models.InvoiceRequest) (*models.Invoice, error) {
	if err := s.val.Validate(req); err != nil {
		return nil, fail(s.store, err)
	}
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodPost, invoicesPath, nil, req)
	if err != nil {
		return nil, fail(s.store, err)
	}
	m := wire.Normalize(data)
	if m == nil {
		return nil, fail(s.store, constants.ErrInvalidResponse)
	}
	inv := models.DecodeInvoice(m)
	s.store.Dispatch(store.AddEntity[models.Invoice]{Entity: inv})
	return &inv, nil
}

// Update writes the invoice and then re-fetches the current page, since the
// server computes derived totals the caller's payload cannot reproduce.
func (s *Invoices) Update(ctx context.Context, id int64, req models.InvoiceRequest) (*models.Invoice, error) {
	if err := s.val.Validate(req); err != nil {
		return nil, fail(s.store, err)
	}
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	data, err := s.tc.Call(ctx, http.MethodPut, fmt.Sprintf("%s/%d", invoicesPath, id), nil, req)
	if err != nil {
		return nil, fail(s.store, err)
	}

	var updated *models.Invoice
	if m := wire.Normalize(data); m != nil {
		inv := models.DecodeInvoice(m)
		updated = &inv
	}
	if s.policy == OptimisticMerge && updated != nil {
		s.store.Dispatch(store.ReplaceEntity[models.Invoice]{Entity: *updated})
		return updated, nil
	}
	if _, err := s.List(ctx, nil); err != nil {
		return updated, err
	}
	return updated, nil
}

// Remove deletes the invoice and optimistically filters it out of state.
func (s *Invoices) Remove(ctx context.Context, id int64) error {
	s.store.Dispatch(store.ClearError{})
	s.store.Dispatch(store.SetLoading{Loading: true})

	if _, err := s.tc.Call(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", invoicesPath, id), nil, nil); err != nil {
		return fail(s.store, err)
	}
	s.store.Dispatch(store.RemoveEntity{ID: id})
	return nil
}

// RevenueByMonth computes the trailing-twelve-months revenue series over the
// invoices currently in state.
func (s *Invoices) RevenueByMonth(now time.Time) []analytics.MonthRevenue {
	return analytics.RevenueByMonth(s.store.Snapshot().Items, now)
}

// StatusDistribution counts the invoices in state grouped by status.
func (s *Invoices) StatusDistribution() map[models.InvoiceStatus]int {
	return analytics.StatusDistribution(s.store.Snapshot().Items)
}

// TopClients returns the highest-revenue clients over the invoices in state.
func (s *Invoices) TopClients() []analytics.ClientRevenue {
	return analytics.TopClients(s.store.Snapshot().Items, constants.TopClientCount)
}

// AgingBuckets classifies the outstanding invoices in state by days overdue.
func (s *Invoices) AgingBuckets(now time.Time) map[analytics.AgingBucket]analytics.AgingSlot {
	return analytics.AgingBuckets(s.store.Snapshot().Items, now)
}
