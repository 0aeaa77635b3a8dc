package domain

import (
	"github.com/shopspring/decimal"
)

// BalanceSide is the natural side of a ledger's balance.
type BalanceSide string

const (
	DebitNatural  BalanceSide = "DEBIT"
	CreditNatural BalanceSide = "CREDIT"
)

// LedgerSubtype is a loose classification used by reporting and the UI.
// The engine only cares about the balance side.
type LedgerSubtype string

const (
	SubtypeCustomer LedgerSubtype = "CUSTOMER"
	SubtypeSupplier LedgerSubtype = "SUPPLIER"
	SubtypeBank     LedgerSubtype = "BANK"
	SubtypeCash     LedgerSubtype = "CASH"
	SubtypeSales    LedgerSubtype = "SALES"
	SubtypePurchase LedgerSubtype = "PURCHASE"
	SubtypeExpense  LedgerSubtype = "EXPENSE"
	SubtypeIncome   LedgerSubtype = "INCOME"
	SubtypeTax      LedgerSubtype = "TAX"
	SubtypeOther    LedgerSubtype = "OTHER"
)

// Ledger is an account with a running balance, debited/credited only by
// posted voucher entries.
type Ledger struct {
	LedgerID    string          `json:"ledgerID"`  // Primary Key (UUID)
	CompanyID   string          `json:"companyID"` // Tenant scope
	Name        string          `json:"name"`
	Subtype     LedgerSubtype   `json:"subtype"`
	BalanceSide BalanceSide     `json:"balanceSide"` // Natural debit/credit side
	Balance     decimal.Decimal `json:"balance"`     // Running balance, signed on the natural side
	IsActive    bool            `json:"isActive"`
	AuditFields
}
