package engine

import "errors"

// Sentinel errors for precondition violations. Operations wrap these with
// context, so callers classify failures with errors.Is. Every violation is
// reported synchronously and leaves the snapshot untouched.
var (
	ErrDuplicateSerial = errors.New("duplicate serial number")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
)
