package content

import "errors"

// Error taxonomy for all business-rule violations. Services wrap these
// with context via fmt.Errorf and %w; handlers map them to HTTP statuses
// with errors.Is. Anything outside this set is treated as an
// infrastructure failure.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("authentication required")
)
