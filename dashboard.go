package erpdesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
	"github.com/erpdesk/erpdesk.go/pkg/store"
	"github.com/erpdesk/erpdesk.go/pkg/transport"
	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

const dashboardPath = "/FinanceDashboard"

// Dashboard section names, the keys under which RefreshAll commits each
// widget's dataset.
const (
	SectionOverview       = "overview"
	SectionRevenue        = "revenue"
	SectionRecentInvoices = "recentInvoices"
	SectionTopClients     = "topClients"
	SectionStatusSummary  = "statusSummary"
	SectionAging          = "aging"
	SectionRecentReports  = "recentReports"
	SectionCompanySummary = "companySummary"
)

// Dashboard is the finance-dashboard subsystem. Its one operation is
// RefreshAll: a concurrent fan-out over every widget endpoint with
// all-settled semantics, preferring a dashboard with most widgets populated
// and one error banner over an all-or-nothing failure.
type Dashboard struct {
	tc    *transport.Client
	log   logger.Logger
	store *store.Store[models.Invoice]
}

func newDashboard(tc *transport.Client, log logger.Logger) *Dashboard {
	return &Dashboard{
		tc:  tc,
		log: log,
		store: store.New(store.Options[models.Invoice]{
			Identity: func(i models.Invoice) int64 { return i.ID },
			PageSize: constants.DashboardPageSize,
			Logger:   log,
		}),
	}
}

// State returns the current snapshot. Widget datasets live in Sections under
// the Section* keys.
func (d *Dashboard) State() store.State[models.Invoice] {
	return d.store.Snapshot()
}

// Subscribe registers a listener for every state transition.
func (d *Dashboard) Subscribe(fn func(store.State[models.Invoice])) (cancel func()) {
	return d.store.Subscribe(fn)
}

// Reset returns the store to its initial state.
func (d *Dashboard) Reset() {
	d.store.Dispatch(store.ResetState{})
}

// source is one widget fetch of the fan-out.
type source struct {
	name   string
	path   string
	decode func(any) any
}

func (d *Dashboard) sources() []source {
	decodeInvoices := func(data any) any {
		m := wire.Normalize(data)
		if m == nil {
			return nil
		}
		return models.DecodeInvoices(wire.Collection(m, "Invoices", "Items"))
	}
	return []source{
		{SectionOverview, dashboardPath + "/overview", func(data any) any {
			m := wire.Normalize(data)
			if m == nil {
				return nil
			}
			return models.DecodeOverview(m)
		}},
		{SectionRevenue, dashboardPath + "/revenue", func(data any) any {
			m := wire.Normalize(data)
			if m == nil {
				return nil
			}
			return wire.Collection(m, "Months", "Items")
		}},
		{SectionRecentInvoices, dashboardPath + "/recent-invoices", decodeInvoices},
		{SectionTopClients, dashboardPath + "/top-clients", func(data any) any {
			m := wire.Normalize(data)
			if m == nil {
				return nil
			}
			return wire.Collection(m, "Clients", "Items")
		}},
		{SectionStatusSummary, dashboardPath + "/status-summary", func(data any) any {
			return wire.Normalize(data)
		}},
		{SectionAging, dashboardPath + "/aging", func(data any) any {
			return wire.Normalize(data)
		}},
		{SectionRecentReports, dashboardPath + "/recent-reports", func(data any) any {
			m := wire.Normalize(data)
			if m == nil {
				return nil
			}
			return models.DecodeFinanceReports(wire.Collection(m, "Reports", "Items"))
		}},
		{SectionCompanySummary, dashboardPath + "/company-summary", func(data any) any {
			return wire.Normalize(data)
		}},
	}
}

// RefreshAll fans out one fetch per dashboard section concurrently. A second
// call while one is in flight is logged and skipped, not queued. Each
// section's failure is isolated: whatever succeeded is committed, and if
// anything failed the store ends up with a single aggregated error message
// naming each failed section, one per line.
func (d *Dashboard) RefreshAll(ctx context.Context, filters models.Filters) error {
	if !d.store.TryBeginRefresh() {
		d.log.Warn("dashboard refresh already in flight, skipping")
		return nil
	}
	defer d.store.EndRefresh()

	d.store.Dispatch(store.ClearError{})
	d.store.Dispatch(store.SetLoading{Loading: true})

	st := d.store.Snapshot()
	q := queryParams(st.Filters.Merge(filters), models.Sort{}, st.Pagination)

	srcs := d.sources()
	failures := make([]error, len(srcs))
	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src source) {
			defer wg.Done()
			data, err := d.tc.Call(ctx, http.MethodGet, src.path, q, nil)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", src.name, err)
				return
			}
			d.store.Dispatch(store.SetSection{Name: src.name, Value: src.decode(data)})
		}(i, src)
	}
	wg.Wait()

	var failed []error
	for _, err := range failures {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		agg := errors.Join(failed...)
		d.store.Dispatch(store.SetError{Message: agg.Error()})
		return agg
	}
	d.store.Dispatch(store.SetLoading{Loading: false})
	return nil
}
