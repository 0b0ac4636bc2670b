package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	tests := map[string]Code{
		"23502":    NotNullViolation,
		"23503":    ForeignKeyViolation,
		"23505":    UniqueViolation,
		"23514":    CheckViolation,
		"22P02":    InvalidTextRepresentation,
		"42P01":    UndefinedTable,
		"42501":    InsufficientPrivilege,
		"28P01":    InvalidCredentials,
		"08006":    ConnectionFailure,
		"PGRST116": Other,
		"":         Other,
	}

	for sqlstate, want := range tests {
		assert.Equal(t, want, MapCode(sqlstate), sqlstate)
	}
}

func TestConvertPgError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23514",
		Message:        `new row for relation "tasks" violates check constraint "tasks_type_check"`,
		TableName:      "tasks",
		ConstraintName: "tasks_type_check",
	}

	sqlErr := ConvertPgError(pgErr)

	assert.Equal(t, CheckViolation, sqlErr.Code)
	assert.Equal(t, SeverityError, sqlErr.Severity)
	assert.Equal(t, "tasks", sqlErr.TableName)
	assert.ErrorIs(t, sqlErr, pgErr)
	assert.Contains(t, sqlErr.Error(), "23514")
}

func TestConvertPostgRESTError(t *testing.T) {
	t.Run("sqlstate in body", func(t *testing.T) {
		sqlErr := ConvertPostgRESTError(http.StatusConflict, "tasks", PostgRESTError{
			Code:    "23505",
			Message: "duplicate key value violates unique constraint",
		})

		assert.Equal(t, UniqueViolation, sqlErr.Code)
		assert.Equal(t, http.StatusConflict, sqlErr.HTTPStatus)
	})

	t.Run("status only", func(t *testing.T) {
		sqlErr := ConvertPostgRESTError(http.StatusUnauthorized, "tasks", PostgRESTError{})

		assert.Equal(t, InvalidCredentials, sqlErr.Code)
		assert.Equal(t, "Unauthorized", sqlErr.Message)
	})
}

func TestHandleError(t *testing.T) {
	assert.NoError(t, HandleError(nil))

	pgErr := &pgconn.PgError{Code: "23502", Severity: "ERROR", ColumnName: "due_at"}
	converted := HandleError(fmt.Errorf("insert: %w", pgErr))
	assert.Equal(t, NotNullViolation, ErrCode(converted))

	already := &Error{Code: UniqueViolation}
	assert.Same(t, already, HandleError(already))

	dial := errors.New("dial tcp: connection refused")
	wrapped := HandleError(dial)
	assert.Equal(t, ConnectionFailure, ErrCode(wrapped))
	assert.ErrorIs(t, wrapped, dial)
}

func TestErrCode_NonSQLError(t *testing.T) {
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "TASK_INVALID", generateErrorCode("tasks", CheckViolation))
	assert.Equal(t, "TASK_ALREADY_EXISTS", generateErrorCode("tasks", UniqueViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
}

func TestLogFields(t *testing.T) {
	fields := LogFields(ConvertPgError(&pgconn.PgError{
		Code:      "23514",
		Severity:  "ERROR",
		TableName: "tasks",
	}))

	require.Contains(t, fields, "error_code")
	assert.Equal(t, "TASK_INVALID", fields["error_code"])
	assert.Equal(t, "23514", fields["sqlstate"])
	assert.NotContains(t, fields, "hint")

	assert.Equal(t, map[string]any{"error_code": "RECORD_ERROR"}, LogFields(errors.New("x")))
}
