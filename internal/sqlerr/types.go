package sqlerr

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code is a friendly category for a Postgres SQLSTATE.
type Code int

const (
	// Other covers errors that don't map to a known category.
	Other Code = iota
	UniqueViolation
	ForeignKeyViolation
	NotNullViolation
	CheckViolation
	ExclusionViolation
	IntegrityConstraintViolation
	InvalidTextRepresentation
	ConnectionException
)

// Severity mirrors the Postgres error severity field.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// MapCode maps a SQLSTATE string onto a Code.
//
// SQLSTATE reference: class 23 is integrity constraint violations, class
// 08 is connection exceptions, 22P02 is invalid text representation.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextRepresentation
	}
	if len(sqlstate) >= 2 {
		switch sqlstate[:2] {
		case "23":
			return IntegrityConstraintViolation
		case "08":
			return ConnectionException
		}
	}
	return Other
}

// MapSeverity maps the Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	}
	return SeverityUnknown
}

// Error is a normalized database error carrying the Postgres metadata
// needed to build user-facing messages.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr *pgconn.PgError
}

func (e *Error) Error() string {
	if e.TableName != "" {
		return fmt.Sprintf("database error on %s: %s (%s)", e.TableName, e.Message, e.DatabaseCode)
	}
	return fmt.Sprintf("database error: %s (%s)", e.Message, e.DatabaseCode)
}

// Unwrap exposes the original driver error for errors.As chains.
func (e *Error) Unwrap() error {
	if e.driverErr == nil {
		return nil
	}
	return e.driverErr
}
