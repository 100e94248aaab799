package models

import (
	"github.com/shopspring/decimal"

	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// Overview is the dashboard's headline block: totals across the tenant.
type Overview struct {
	TotalRevenue decimal.Decimal
	Outstanding  decimal.Decimal
	InvoiceCount int
	ClientCount  int
	OverdueCount int
}

func DecodeOverview(m map[string]any) Overview {
	return Overview{
		TotalRevenue: decimal.NewFromFloat(wire.Num(m, "TotalRevenue", "Revenue")),
		Outstanding:  decimal.NewFromFloat(wire.Num(m, "OutstandingAmount", "Outstanding")),
		InvoiceCount: wire.Int(m, "InvoiceCount", "TotalInvoices"),
		ClientCount:  wire.Int(m, "ClientCount", "TotalClients"),
		OverdueCount: wire.Int(m, "OverdueCount"),
	}
}
