package errs

import "errors"

// Usecase-level sentinel errors shared between commands, queries and the
// transport layer's error mapping.
var (
	// Window errors
	ErrInvalidRange = errors.New("invalid booking window")

	// Booking errors
	ErrBookingNotFound     = errors.New("booking not found")
	ErrDuplicateSubmission = errors.New("booking already submitted")
	ErrVehicleOverlap      = errors.New("vehicle has an overlapping active booking")
	ErrCapacityExceeded    = errors.New("no spaces available")
	ErrAlreadyCancelled    = errors.New("booking already cancelled")
	ErrBookingNotAmendable = errors.New("cannot amend a cancelled booking")

	// Operation errors
	ErrStoreFailure      = errors.New("database operation failed")
	ErrTransactionFailed = errors.New("transaction failed after max retries")
)
