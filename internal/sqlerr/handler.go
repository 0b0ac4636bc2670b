package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		Detail:         src.Detail,
		Hint:           src.Hint,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// PostgRESTError is the JSON error body of a PostgREST-compatible API.
//
// For database errors Code is the SQLSTATE; PostgREST's own errors use
// "PGRST..." codes.
type PostgRESTError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// ConvertPostgRESTError converts a non-2xx REST answer into an *Error.
//
// body may be the zero value when the response carried no parseable error.
func ConvertPostgRESTError(status int, table string, body PostgRESTError) *Error {
	code := MapCode(body.Code)
	if code == Other {
		switch status {
		case http.StatusUnauthorized:
			code = InvalidCredentials
		case http.StatusForbidden:
			code = InsufficientPrivilege
		case http.StatusNotFound:
			code = UndefinedTable
		}
	}

	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}

	return &Error{
		Code:         code,
		Severity:     SeverityError,
		DatabaseCode: body.Code,
		Message:      message,
		Detail:       body.Details,
		Hint:         body.Hint,
		TableName:    table,
		HTTPStatus:   status,
	}
}

// HandleError converts a driver error into an *Error.
//
// Errors that already are *Error are returned unchanged, *pgconn.PgError is
// converted, and anything else (dial failures, timeouts) becomes a
// ConnectionFailure wrapping the original.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}

	return &Error{
		Code:      ConnectionFailure,
		Severity:  SeverityError,
		Message:   err.Error(),
		driverErr: err,
	}
}

// generateErrorCode builds a <DOMAIN>_<ACTION> label such as TASK_INVALID.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidTextRepresentation:
		action = "INVALID"
	case InvalidCredentials, InsufficientPrivilege:
		action = "UNAUTHORIZED"
	case ConnectionFailure:
		action = "UNAVAILABLE"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// LogFields returns the structured fields of err for a log line.
//
// Non-*Error values only get an error_code of RECORD_ERROR.
func LogFields(err error) map[string]any {
	var sqlErr *Error
	if !errors.As(err, &sqlErr) {
		return map[string]any{"error_code": generateErrorCode("", Other)}
	}

	fields := map[string]any{
		"error_code": generateErrorCode(sqlErr.TableName, sqlErr.Code),
		"db_code":    string(sqlErr.Code),
		"severity":   string(sqlErr.Severity),
	}

	optional := map[string]string{
		"sqlstate":   sqlErr.DatabaseCode,
		"detail":     sqlErr.Detail,
		"hint":       sqlErr.Hint,
		"table":      sqlErr.TableName,
		"column":     sqlErr.ColumnName,
		"constraint": sqlErr.ConstraintName,
	}
	for key, value := range optional {
		if value != "" {
			fields[key] = value
		}
	}

	if sqlErr.HTTPStatus != 0 {
		fields["store_status"] = sqlErr.HTTPStatus
	}

	return fields
}
