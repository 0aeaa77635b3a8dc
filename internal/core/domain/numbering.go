package domain

// NumberingMethod is the allocation policy of a numbering series.
type NumberingMethod string

const (
	// MethodManual expects the caller to supply the number; the allocator
	// only enforces uniqueness within the series.
	MethodManual NumberingMethod = "MANUAL"
	// MethodNone assigns no number; the voucher is identified by its ID.
	MethodNone NumberingMethod = "NONE"
	// MethodAutomatic increments the series counter; no override permitted.
	MethodAutomatic NumberingMethod = "AUTOMATIC"
	// MethodAutomaticWithOverride behaves like AUTOMATIC but accepts a
	// caller-supplied number after a duplicate check, fast-forwarding the
	// counter when the manual number is numerically larger.
	MethodAutomaticWithOverride NumberingMethod = "AUTOMATIC_WITH_OVERRIDE"
	// MethodMultiUserAuto is AUTOMATIC hardened for concurrent callers:
	// the counter update is a compare-and-swap and a losing caller retries
	// its entire allocation.
	MethodMultiUserAuto NumberingMethod = "MULTI_USER_AUTO"
)

// KnownNumberingMethods lists every valid method, for config validation.
var KnownNumberingMethods = []NumberingMethod{
	MethodManual, MethodNone, MethodAutomatic, MethodAutomaticWithOverride, MethodMultiUserAuto,
}

// VoucherType is a named voucher category owning one or more numbering
// series. Configured once per company; immutable during normal operation.
type VoucherType struct {
	VoucherTypeID string          `json:"voucherTypeID"` // Primary Key (UUID)
	CompanyID     string          `json:"companyID"`
	Name          string          `json:"name"` // e.g. "Sales Invoice"
	Category      VoucherCategory `json:"category"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// NumberingSeries issues voucher numbers for one voucher type. The counter
// is the only mutable field and the contended resource under concurrency.
type NumberingSeries struct {
	SeriesID       string          `json:"seriesID"` // Primary Key (UUID)
	VoucherTypeID  string          `json:"voucherTypeID"`
	Prefix         string          `json:"prefix"`
	Method         NumberingMethod `json:"method"`
	CurrentCounter int64           `json:"currentCounter"` // Last issued counter value
	IsDefault      bool            `json:"isDefault"`      // One default series per voucher type
	AuditFields
}
