package models

import (
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// Company mirrors a tenant company record.
type Company struct {
	ID        int64
	Name      string
	TaxNumber string
	Email     string
	Active    bool
	CreatedAt time.Time
}

func DecodeCompany(m map[string]any) Company {
	return Company{
		ID:        wire.Int64(m, "Id", "CompanyId"),
		Name:      wire.Str(m, "CompanyName", "Name"),
		TaxNumber: wire.Str(m, "TaxNumber"),
		Email:     wire.Str(m, "Email"),
		Active:    wire.Bool(m, "IsActive", "Active"),
		CreatedAt: wire.Date(m, "CreatedAt", "CreatedDate"),
	}
}

func DecodeCompanies(items []map[string]any) []Company {
	out := make([]Company, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeCompany(m))
	}
	return out
}

// CompanyRequest is the payload for creating or updating a company.
type CompanyRequest struct {
	Name      string `json:"companyName" validate:"required"`
	TaxNumber string `json:"taxNumber"   validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Active    bool   `json:"isActive"`
}
