package model

import "errors"

// Error kinds returned by the scheduling engine. Callers classify with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrNotConfigured   = errors.New("business working hours not configured")
	ErrOutOfHours      = errors.New("requested time is outside working hours")
	ErrSlotTaken       = errors.New("time slot already booked")
	ErrPolicyViolation = errors.New("cancellation policy violation")
	// ErrConflict is a storage-level overlap rejection from a concurrent writer.
	ErrConflict = errors.New("conflicting appointment")
)
