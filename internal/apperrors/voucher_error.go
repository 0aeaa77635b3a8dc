package apperrors

import (
	"errors"
	"fmt"
)

// Voucher error kinds surfaced to callers. The kind plus the details map is
// the persisted representation of a posting failure; callers branch on the
// kind to render field-level feedback instead of parsing message strings.
const (
	KindUnbalanced           = "Unbalanced"
	KindInvalidDate          = "InvalidDate"
	KindInvalidBillReference = "InvalidBillReference"
	KindInvalidInventoryLine = "InvalidInventoryLine"
	KindDuplicateNumber      = "DuplicateNumber"
	KindAllocationConflict   = "AllocationConflict"
	KindIntegrity            = "IntegrityViolation"
	KindStorage              = "StorageFailure"
)

// VoucherError is a structured posting failure: a stable kind plus
// string-valued context. It wraps one of the taxonomy sentinels so callers
// can classify it with errors.Is.
type VoucherError struct {
	Kind    string            `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
	cause   error
}

func (e *VoucherError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("%s: %v %v", e.Kind, e.cause, e.Details)
}

func (e *VoucherError) Unwrap() error {
	return e.cause
}

// AsVoucherError extracts a VoucherError from an error chain.
func AsVoucherError(err error) (*VoucherError, bool) {
	var ve *VoucherError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NewUnbalanced reports a debit/credit mismatch with both totals.
func NewUnbalanced(debitTotal, creditTotal string) *VoucherError {
	return &VoucherError{
		Kind:    KindUnbalanced,
		Details: map[string]string{"debitTotal": debitTotal, "creditTotal": creditTotal},
		cause:   fmt.Errorf("%w: debits %s do not equal credits %s", ErrValidation, debitTotal, creditTotal),
	}
}

// NewInvalidDate reports a voucher date outside the fiscal window.
// reason is one of the fiscal sentinels (ErrBeforeFinancialYear,
// ErrBackdatingNotAllowed).
func NewInvalidDate(date string, reason error) *VoucherError {
	return &VoucherError{
		Kind:    KindInvalidDate,
		Details: map[string]string{"date": date, "reason": reason.Error()},
		cause:   fmt.Errorf("%w: %w", ErrPolicy, reason),
	}
}

// NewInvalidBillReference reports an inconsistent bill reference on an entry.
func NewInvalidBillReference(entryID, reason string) *VoucherError {
	return &VoucherError{
		Kind:    KindInvalidBillReference,
		Details: map[string]string{"entryID": entryID, "reason": reason},
		cause:   fmt.Errorf("%w: invalid bill reference on entry %s: %s", ErrValidation, entryID, reason),
	}
}

// NewInvalidInventoryLine reports a malformed inventory line.
func NewInvalidInventoryLine(itemID, reason string) *VoucherError {
	return &VoucherError{
		Kind:    KindInvalidInventoryLine,
		Details: map[string]string{"itemID": itemID, "reason": reason},
		cause:   fmt.Errorf("%w: invalid inventory line for item %s: %s", ErrValidation, itemID, reason),
	}
}

// NewDuplicateNumber reports a manual or overridden voucher number that is
// already used within its series.
func NewDuplicateNumber(seriesID, number string) *VoucherError {
	return &VoucherError{
		Kind:    KindDuplicateNumber,
		Details: map[string]string{"seriesID": seriesID, "voucherNumber": number},
		cause:   fmt.Errorf("%w: voucher number %s already used in series %s", ErrPolicy, number, seriesID),
	}
}

// NewAllocationConflict reports a lost race on a series counter after the
// engine exhausted its retries.
func NewAllocationConflict(seriesID string, attempts int) *VoucherError {
	return &VoucherError{
		Kind:    KindAllocationConflict,
		Details: map[string]string{"seriesID": seriesID, "attempts": fmt.Sprintf("%d", attempts)},
		cause:   fmt.Errorf("%w: numbering allocation lost the race on series %s after %d attempts", ErrConflict, seriesID, attempts),
	}
}

// NewIntegrity reports a missing or inactive referenced resource.
func NewIntegrity(resource, id, reason string) *VoucherError {
	return &VoucherError{
		Kind:    KindIntegrity,
		Details: map[string]string{"resource": resource, "id": id, "reason": reason},
		cause:   fmt.Errorf("%w: %s %s: %s", ErrIntegrity, resource, id, reason),
	}
}

// NewStorage wraps a storage-layer failure from the atomic commit.
func NewStorage(err error) *VoucherError {
	return &VoucherError{
		Kind:  KindStorage,
		cause: fmt.Errorf("%w: %w", ErrStorage, err),
	}
}
