package models

import (
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// FinanceReport mirrors a generated or scheduled finance report record.
type FinanceReport struct {
	ID        int64
	Name      string
	Type      string
	Status    string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	FileURL   string
}

func DecodeFinanceReport(m map[string]any) FinanceReport {
	return FinanceReport{
		ID:        wire.Int64(m, "Id", "ReportId"),
		Name:      wire.Str(m, "ReportName", "Name"),
		Type:      wire.Str(m, "ReportType", "Type"),
		Status:    wire.Str(m, "Status"),
		StartDate: wire.Date(m, "StartDate"),
		EndDate:   wire.Date(m, "EndDate"),
		CreatedAt: wire.Date(m, "CreatedAt", "CreatedDate"),
		FileURL:   wire.Str(m, "FileUrl", "DownloadUrl"),
	}
}

func DecodeFinanceReports(items []map[string]any) []FinanceReport {
	out := make([]FinanceReport, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeFinanceReport(m))
	}
	return out
}

// ReportRequest is the payload for creating or generating a finance report.
// Name, type and the date range are required before any network call is made.
type ReportRequest struct {
	Name      string `json:"reportName" validate:"required"`
	Type      string `json:"reportType" validate:"required"`
	StartDate string `json:"startDate"  validate:"required"`
	EndDate   string `json:"endDate"    validate:"required"`
	Format    string `json:"format,omitempty"`
}
