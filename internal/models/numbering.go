package models

// VoucherType represents a row in the voucher_types table.
type VoucherType struct {
	VoucherTypeID string `json:"voucherTypeID"` // Primary Key (UUID)
	CompanyID     string `json:"companyID"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}

// NumberingSeries represents a row in the numbering_series table.
type NumberingSeries struct {
	SeriesID       string `json:"seriesID"` // Primary Key (UUID)
	VoucherTypeID  string `json:"voucherTypeID"`
	Prefix         string `json:"prefix"`
	Method         string `json:"method"`
	CurrentCounter int64  `json:"currentCounter"`
	IsDefault      bool   `json:"isDefault"`
	AuditFields
}
