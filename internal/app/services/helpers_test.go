package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var errAuditDown = errors.New("security log unavailable")

// duplicateKeyError mimics a PostgreSQL unique violation on a named constraint
func duplicateKeyError(constraintName string) error {
	return &pgconn.PgError{
		Code:           "23505",
		ConstraintName: constraintName,
		Message:        "duplicate key value violates unique constraint \"" + constraintName + "\"",
	}
}

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
