package repositories

import (
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDuplicateKey is returned when a create/update violates a uniqueness rule (e.g. product SKU).
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrInvalidPatch is returned when a partial update cannot be merged onto a record.
	ErrInvalidPatch = errors.New("invalid patch")

	// ErrNegativeStock is returned when a stock adjustment would leave stock below zero.
	ErrNegativeStock = errors.New("stock cannot go below zero")
)
