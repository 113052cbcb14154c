package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnbalanced indicates a journal group whose debits and credits do not match.
	ErrUnbalanced = errors.New("unbalanced_group")
	// ErrInvalidAmount indicates a negative or otherwise unusable amount.
	ErrInvalidAmount = errors.New("invalid_amount")
	// ErrInsufficientStock indicates a sale exceeding the on-hand quantity.
	ErrInsufficientStock = errors.New("insufficient_stock")
	// ErrInvalidStatus indicates an operation not permitted in the entity's current status.
	ErrInvalidStatus = errors.New("invalid_status")
)
