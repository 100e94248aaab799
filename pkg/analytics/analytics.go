// Package analytics computes dashboard aggregates from invoice lists. Every
// helper is a pure function of its inputs and the supplied reference time:
// the same list and the same "now" always produce the same output, and input
// lists are never mutated.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erpdesk/erpdesk.go/pkg/models"
)

// MonthRevenue is one bucket of the trailing-twelve-months revenue series.
type MonthRevenue struct {
	Year    int
	Month   time.Month
	Revenue decimal.Decimal
}

// RevenueByMonth buckets paid invoices by issue month into the 12 trailing
// calendar months ending at now's month, oldest bucket first. Invoices
// outside the window or not yet paid contribute nothing.
func RevenueByMonth(invoices []models.Invoice, now time.Time) []MonthRevenue {
	buckets := make([]MonthRevenue, 12)
	index := map[[2]int]int{}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		buckets[i] = MonthRevenue{Year: m.Year(), Month: m.Month(), Revenue: decimal.Zero}
		index[[2]int{m.Year(), int(m.Month())}] = i
	}
	for _, inv := range invoices {
		if inv.Status != models.InvoicePaid || inv.IssueDate.IsZero() {
			continue
		}
		i, ok := index[[2]int{inv.IssueDate.Year(), int(inv.IssueDate.Month())}]
		if !ok {
			continue
		}
		buckets[i].Revenue = buckets[i].Revenue.Add(inv.Amount)
	}
	return buckets
}

// GrowthRate is the percentage delta between the current and prior period
// aggregates. A zero prior period yields exactly 0, never NaN or Inf.
func GrowthRate(current, prior decimal.Decimal) float64 {
	if prior.IsZero() {
		return 0
	}
	rate, _ := current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Float64()
	return rate
}

// StatusDistribution counts invoices grouped by status.
func StatusDistribution(invoices []models.Invoice) map[models.InvoiceStatus]int {
	dist := map[models.InvoiceStatus]int{}
	for _, inv := range invoices {
		dist[inv.Status]++
	}
	return dist
}

// ClientRevenue is one entry of the top-client grouping.
type ClientRevenue struct {
	ClientID   int64
	ClientName string
	Revenue    decimal.Decimal
}

// TopClients sums invoice amounts per client and returns the n largest,
// descending. Ties keep input-encounter order (stable sort).
func TopClients(invoices []models.Invoice, n int) []ClientRevenue {
	totals := map[int64]*ClientRevenue{}
	order := make([]int64, 0)
	for _, inv := range invoices {
		cr, ok := totals[inv.ClientID]
		if !ok {
			cr = &ClientRevenue{ClientID: inv.ClientID, ClientName: inv.ClientName, Revenue: decimal.Zero}
			totals[inv.ClientID] = cr
			order = append(order, inv.ClientID)
		}
		cr.Revenue = cr.Revenue.Add(inv.Amount)
	}
	out := make([]ClientRevenue, 0, len(order))
	for _, id := range order {
		out = append(out, *totals[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// AgingBucket classifies an outstanding invoice by days elapsed since its
// due date.
type AgingBucket string

const (
	AgingCurrent AgingBucket = "Current"
	Aging1To30   AgingBucket = "1-30 Days"
	Aging31To60  AgingBucket = "31-60 Days"
	Aging61To90  AgingBucket = "61-90 Days"
	AgingOver90  AgingBucket = "Over 90 Days"
)

// AgingBucketOrder lists the buckets from least to most overdue, for stable
// presentation.
var AgingBucketOrder = []AgingBucket{AgingCurrent, Aging1To30, Aging31To60, Aging61To90, AgingOver90}

// ClassifyAge places an elapsed-days count into its bucket. Day boundaries
// are inclusive on the upper end: 30 days is 1-30, 60 days is 31-60.
func ClassifyAge(days int) AgingBucket {
	switch {
	case days <= 0:
		return AgingCurrent
	case days <= 30:
		return Aging1To30
	case days <= 60:
		return Aging31To60
	case days <= 90:
		return Aging61To90
	default:
		return AgingOver90
	}
}

// AgingSlot aggregates one bucket of the aging report.
type AgingSlot struct {
	Count  int
	Amount decimal.Decimal
}

// AgingBuckets classifies outstanding invoices by days overdue relative to
// now. Paid, cancelled and draft invoices are excluded; invoices without a
// due date count as current.
func AgingBuckets(invoices []models.Invoice, now time.Time) map[AgingBucket]AgingSlot {
	report := make(map[AgingBucket]AgingSlot, len(AgingBucketOrder))
	for _, b := range AgingBucketOrder {
		report[b] = AgingSlot{Amount: decimal.Zero}
	}
	for _, inv := range invoices {
		if !inv.Status.Outstanding() {
			continue
		}
		days := 0
		if !inv.DueDate.IsZero() {
			days = int(now.Sub(inv.DueDate).Hours() / 24)
		}
		bucket := ClassifyAge(days)
		slot := report[bucket]
		slot.Count++
		slot.Amount = slot.Amount.Add(inv.Amount)
		report[bucket] = slot
	}
	return report
}
