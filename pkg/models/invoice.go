package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// InvoiceStatus is the backend's invoice lifecycle enum.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "Draft"
	InvoiceSent      InvoiceStatus = "Sent"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceOverdue   InvoiceStatus = "Overdue"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

// Outstanding reports whether the invoice still awaits payment.
func (s InvoiceStatus) Outstanding() bool {
	return s != InvoicePaid && s != InvoiceCancelled && s != InvoiceDraft
}

// Invoice mirrors the backend invoice record. Identity is server-assigned;
// the client never makes one up.
type Invoice struct {
	ID         int64
	Number     string
	ClientID   int64
	ClientName string
	Status     InvoiceStatus
	Amount     decimal.Decimal
	IssueDate  time.Time
	DueDate    time.Time
	PaidDate   time.Time
}

// DecodeInvoice maps a normalized wire object onto an Invoice.
func DecodeInvoice(m map[string]any) Invoice {
	return Invoice{
		ID:         wire.Int64(m, "Id", "InvoiceId"),
		Number:     wire.Str(m, "InvoiceNumber", "Number"),
		ClientID:   wire.Int64(m, "ClientId", "CompanyId"),
		ClientName: wire.Str(m, "ClientName", "CompanyName"),
		Status:     InvoiceStatus(wire.Str(m, "Status")),
		Amount:     decimal.NewFromFloat(wire.Num(m, "TotalAmount", "Amount")),
		IssueDate:  wire.Date(m, "InvoiceDate", "IssueDate"),
		DueDate:    wire.Date(m, "DueDate"),
		PaidDate:   wire.Date(m, "PaymentDate", "PaidDate"),
	}
}

// DecodeInvoices maps a normalized wire collection onto invoices.
func DecodeInvoices(items []map[string]any) []Invoice {
	out := make([]Invoice, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeInvoice(m))
	}
	return out
}

// InvoiceRequest is the payload for creating or updating an invoice.
type InvoiceRequest struct {
	Number   string  `json:"invoiceNumber" validate:"required"`
	ClientID int64   `json:"clientId"      validate:"required"`
	Amount   float64 `json:"totalAmount"   validate:"required"`
	DueDate  string  `json:"dueDate"       validate:"required"`
	Notes    string  `json:"notes,omitempty"`
}
