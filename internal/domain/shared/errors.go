package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// WarningCode identifies a recoverable data-quality condition detected
// during a calculation. Warnings ride along with results instead of
// aborting them, so callers always have something to render.
type WarningCode string

const (
	WarningOverpayment          WarningCode = "OVERPAYMENT_DETECTED"
	WarningInvalidAccountWindow WarningCode = "INVALID_ACCOUNT_WINDOW"
	WarningMissingTotal         WarningCode = "MISSING_TOTAL"
	WarningWindowIneligible     WarningCode = "WINDOW_INELIGIBLE"
)

// Warning is a non-fatal data-quality finding attached to a result.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// NewWarning creates a new warning
func NewWarning(code WarningCode, message string) Warning {
	return Warning{Code: code, Message: message}
}
