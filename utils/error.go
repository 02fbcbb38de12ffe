package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Movement error taxonomy. Handlers map these to HTTP statuses and callers
// decide retry policy with IsRetryableMovementError.
var (
	ErrorUnknownResourceKind    = errors.New("unknown resource kind")
	ErrorInsufficientStock      = errors.New("insufficient stock")
	ErrorVehicleAlreadyAssigned = errors.New("vehicle already assigned")
	ErrorVehicleNotAssigned     = errors.New("vehicle not assigned")
	ErrorMovementConflict       = errors.New("concurrent movement conflict")
	ErrorMovementTimeout        = errors.New("movement timed out")
)

// IsRetryableMovementError reports whether the caller may retry the same
// request verbatim. Conflict and timeout are transient; everything else
// (insufficient stock, unknown kind, ...) will never succeed unmodified.
func IsRetryableMovementError(err error) bool {
	return errors.Is(err, ErrorMovementConflict) || errors.Is(err, ErrorMovementTimeout)
}
