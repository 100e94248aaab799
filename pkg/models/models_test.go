package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInvoice(t *testing.T) {
	inv := DecodeInvoice(map[string]any{
		"Id":            17.0,
		"InvoiceNumber": "INV-0017",
		"ClientId":      4.0,
		"ClientName":    "Acme GmbH",
		"Status":        "Paid",
		"TotalAmount":   1250.75,
		"InvoiceDate":   "2024-05-01T00:00:00Z",
		"DueDate":       "2024-05-31",
	})

	assert.Equal(t, int64(17), inv.ID)
	assert.Equal(t, "INV-0017", inv.Number)
	assert.Equal(t, int64(4), inv.ClientID)
	assert.Equal(t, InvoicePaid, inv.Status)
	assert.Equal(t, "1250.75", inv.Amount.String())
	assert.Equal(t, time.May, inv.IssueDate.Month())
	assert.True(t, inv.PaidDate.IsZero())
}

func TestDecodePagination(t *testing.T) {
	t.Run("CurrentPage spelling", func(t *testing.T) {
		p := DecodePagination(map[string]any{
			"CurrentPage": 2.0, "PageSize": 25.0, "TotalItems": 60.0, "TotalPages": 3.0,
		})
		assert.Equal(t, Pagination{Page: 2, PageSize: 25, TotalItems: 60, TotalPages: 3}, p)
	})

	t.Run("PageNumber spelling", func(t *testing.T) {
		p := DecodePagination(map[string]any{
			"PageNumber": 4.0, "PageSize": 10.0, "TotalItems": 35.0,
		})
		assert.Equal(t, 4, p.Page)
		assert.Equal(t, 4, p.TotalPages, "missing TotalPages is recomputed")
	})

	t.Run("nil block yields page 1", func(t *testing.T) {
		p := DecodePagination(nil)
		assert.Equal(t, 1, p.Page)
	})
}

func TestPaginationArithmetic(t *testing.T) {
	p := Pagination{Page: 2, PageSize: 25, TotalItems: 51}.Recalced()
	require.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext())
	assert.True(t, p.HasPrev())

	assert.False(t, Pagination{Page: 1, TotalPages: 1}.HasNext())
	assert.False(t, Pagination{Page: 1, TotalPages: 1}.HasPrev())
}

func TestFiltersMergeDoesNotMutate(t *testing.T) {
	base := Filters{"status": "Sent"}
	merged := base.Merge(Filters{"status": "Paid", "search": "acme"})

	assert.Equal(t, Filters{"status": "Sent"}, base)
	assert.Equal(t, Filters{"status": "Paid", "search": "acme"}, merged)
}

func TestInvoiceStatusOutstanding(t *testing.T) {
	assert.True(t, InvoiceSent.Outstanding())
	assert.True(t, InvoiceOverdue.Outstanding())
	assert.False(t, InvoicePaid.Outstanding())
	assert.False(t, InvoiceCancelled.Outstanding())
	assert.False(t, InvoiceDraft.Outstanding())
}
