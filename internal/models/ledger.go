package models

import "github.com/shopspring/decimal"

// Ledger represents a row in the ledgers table.
type Ledger struct {
	LedgerID    string          `json:"ledgerID"` // Primary Key (UUID)
	CompanyID   string          `json:"companyID"`
	Name        string          `json:"name"`
	Subtype     string          `json:"subtype"`
	BalanceSide string          `json:"balanceSide"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}
