package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumns = []string{"id", "application_id", "type", "due_at", "title", "status", "created_at"}

func strPtr(s string) *string { return &s }

func TestPostgresTaskRepository_InsertTask(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresTaskRepository(mock, "public", "tasks")

	dueAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO "public"."tasks" (application_id, type, due_at) VALUES ($1, $2, $3) RETURNING ` + returningColumns,
	)).
		WithArgs("3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a", "call", dueAt).
		WillReturnRows(pgxmock.NewRows(taskColumns).AddRow(
			"7d1e2f3a-0000-4000-8000-000000000001",
			"3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a",
			"call",
			dueAt,
			(*string)(nil),
			strPtr("open"),
			&createdAt,
		))

	task, err := repo.InsertTask(context.Background(), TaskRecord{
		ApplicationID: "3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a",
		Type:          "call",
		DueAt:         "2030-01-02T03:04:05.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "7d1e2f3a-0000-4000-8000-000000000001", task.ID)
	assert.Nil(t, task.Title)
	require.NotNil(t, task.Status)
	assert.Equal(t, "open", *task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskRepository_InsertTask_OptionalColumns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresTaskRepository(mock, "crm", "tasks")
	dueAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO "crm"."tasks" (application_id, type, due_at, title, status) VALUES ($1, $2, $3, $4, $5)`,
	)).
		WithArgs("3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a", "email", dueAt, "Send offer", "pending").
		WillReturnRows(pgxmock.NewRows(taskColumns).AddRow(
			"7d1e2f3a-0000-4000-8000-000000000002",
			"3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a",
			"email",
			dueAt,
			strPtr("Send offer"),
			strPtr("pending"),
			&dueAt,
		))

	task, err := repo.InsertTask(context.Background(), TaskRecord{
		ApplicationID: "3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a",
		Type:          "email",
		DueAt:         "2030-01-02T03:04:05.000Z",
		Title:         strPtr("Send offer"),
		Status:        strPtr("pending"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Send offer", *task.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskRepository_InsertTask_ConstraintViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresTaskRepository(mock, "public", "tasks")

	mock.ExpectQuery(`INSERT INTO "public"."tasks"`).
		WillReturnError(&pgconn.PgError{
			Severity:       "ERROR",
			Code:           "23514",
			Message:        "violates check constraint",
			TableName:      "tasks",
			ConstraintName: "tasks_type_check",
		})

	_, err = repo.InsertTask(context.Background(), TaskRecord{
		ApplicationID: "3f2b8c1e-9d4a-4b7e-8c2f-1a6d5e9b0c7a",
		Type:          "call",
		DueAt:         "2030-01-02T03:04:05.000Z",
	})
	require.Error(t, err)
	assert.Equal(t, sqlerr.CheckViolation, sqlerr.ErrCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskRepository_InsertTask_BadDueAt(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresTaskRepository(mock, "public", "tasks")

	_, err = repo.InsertTask(context.Background(), TaskRecord{DueAt: "soon"})
	assert.ErrorContains(t, err, "parsing due_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTaskRepository_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresTaskRepository(mock, "public", "tasks")

	mock.ExpectPing()
	assert.NoError(t, repo.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(context.DeadlineExceeded)
	err = repo.Ping(context.Background())
	assert.Equal(t, sqlerr.ConnectionFailure, sqlerr.ErrCode(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
