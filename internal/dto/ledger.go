package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
)

// CreateLedgerRequest creates a new ledger account.
type CreateLedgerRequest struct {
	Name        string `json:"name" binding:"required"`
	Subtype     string `json:"subtype" binding:"required,oneof=CUSTOMER SUPPLIER BANK CASH SALES PURCHASE EXPENSE INCOME TAX OTHER"`
	BalanceSide string `json:"balanceSide" binding:"required,oneof=DEBIT CREDIT"`
}

// LedgerResponse mirrors a ledger.
type LedgerResponse struct {
	LedgerID    string          `json:"ledgerID"`
	Name        string          `json:"name"`
	Subtype     string          `json:"subtype"`
	BalanceSide string          `json:"balanceSide"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LedgerBalanceResponse is the running balance of one ledger.
type LedgerBalanceResponse struct {
	LedgerID string          `json:"ledgerID"`
	Balance  decimal.Decimal `json:"balance"`
}

// ToLedgerResponse converts a domain ledger.
func ToLedgerResponse(l *domain.Ledger) LedgerResponse {
	return LedgerResponse{
		LedgerID:    l.LedgerID,
		Name:        l.Name,
		Subtype:     string(l.Subtype),
		BalanceSide: string(l.BalanceSide),
		Balance:     l.Balance,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
	}
}
