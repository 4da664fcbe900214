package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const invalidTextRepresentation = "22P02"

// isInvalidID reports a lookup key Postgres could not cast, such as a
// malformed UUID. No row can match it, so callers treat it as missing.
func isInvalidID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidTextRepresentation
}
