package sqlerr

import (
	"fmt"
)

// Code is a driver independent classification of a store error.
type Code string

const (
	Other                     Code = "other"
	NotNullViolation          Code = "not_null_violation"
	ForeignKeyViolation       Code = "foreign_key_violation"
	UniqueViolation           Code = "unique_violation"
	CheckViolation            Code = "check_violation"
	InvalidTextRepresentation Code = "invalid_text_representation"
	UndefinedTable            Code = "undefined_table"
	UndefinedColumn           Code = "undefined_column"
	InsufficientPrivilege     Code = "insufficient_privilege"
	InvalidCredentials        Code = "invalid_credentials"
	ConnectionFailure         Code = "connection_failure"
)

// MapCode maps a Postgres SQLSTATE to a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "22P02", "22007", "22008":
		return InvalidTextRepresentation
	case "42P01":
		return UndefinedTable
	case "42703":
		return UndefinedColumn
	case "42501":
		return InsufficientPrivilege
	case "28000", "28P01":
		return InvalidCredentials
	}

	// Class 08 is "connection exception".
	if len(sqlstate) == 5 && sqlstate[:2] == "08" {
		return ConnectionFailure
	}

	return Other
}

// Severity mirrors the Postgres message severity.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity maps the severity string of a Postgres error. Unknown values
// are treated as ERROR.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// Error is a store failure with enough structure to log and classify it.
type Error struct {
	Code         Code
	Severity     Severity
	DatabaseCode string
	Message      string
	Detail       string
	Hint         string

	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	// HTTPStatus is the status the REST store answered with, 0 for Postgres.
	HTTPStatus int

	driverErr error
}

func (e *Error) Error() string {
	if e.DatabaseCode == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Code, e.DatabaseCode, e.Message)
}

// Unwrap returns the original driver error, if there is one.
func (e *Error) Unwrap() error {
	return e.driverErr
}
