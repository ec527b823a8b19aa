package database

import (
	"strings"

	"github.com/lib/pq"

	"github.com/retailku/order-admin/pkg/errors"
)

// MapPQError converts a PostgreSQL error on the documents table to an
// AppError with a meaningful message.
// Returns nil if the error is not a pq.Error or has no specific mapping.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	// Unique constraint violation (23505)
	case "23505":
		return errors.Conflict("a document with this id already exists in the collection")

	// Invalid text representation (22P02), raised for malformed JSONB
	case "22P02":
		return errors.BadRequest("document data is not valid JSON")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})
	}

	// Connection exceptions (class 08) and operator intervention (class 57)
	// mean the store is unreachable rather than the request being wrong.
	if class := string(pqErr.Code.Class()); class == "08" || class == "57" {
		return errors.Store(pqErr)
	}

	if strings.HasPrefix(string(pqErr.Code), "42") {
		return errors.Internal("documents table is missing or malformed: " + pqErr.Message)
	}

	return nil
}
