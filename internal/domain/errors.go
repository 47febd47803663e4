package domain

import "errors"

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrVersionConflict        = errors.New("product version conflict")
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
	ErrIdempotencyMismatch    = errors.New("idempotency key reused with different payload")
)
