package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Validation failures are caller-correctable and never retried by the engine.
var ErrValidation = errors.New("validation error")

// ErrPolicy indicates the request violated a posting policy (fiscal window,
// duplicate manual number). Caller-correctable with different input.
var ErrPolicy = errors.New("policy error")

// ErrConflict indicates a transient lost race on a contended resource
// (a numbering series counter). The engine retries these a bounded number
// of times before surfacing them.
var ErrConflict = errors.New("conflict error")

// ErrIntegrity indicates a referenced ledger, item or warehouse is missing
// or inactive. Fatal for the request; usually a stale client view.
var ErrIntegrity = errors.New("integrity error")

// ErrStorage indicates the storage layer failed during the atomic commit.
// The commit guarantees no partial effect occurred.
var ErrStorage = errors.New("storage error")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Fiscal window rejection reasons. Both unwrap to ErrPolicy via VoucherError.
var (
	ErrBeforeFinancialYear  = errors.New("date is before the financial year start")
	ErrBackdatingNotAllowed = errors.New("backdated entry is not allowed")
)
