package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// DBTX is the subset of *pgxpool.Pool the Postgres repository uses.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresTaskRepository writes tasks with plain SQL through pgx.
type PostgresTaskRepository struct {
	db    DBTX
	table string
}

// NewPostgresTaskRepository returns a repository writing to schema.table.
func NewPostgresTaskRepository(db DBTX, schema, table string) *PostgresTaskRepository {
	return &PostgresTaskRepository{
		db:    db,
		table: pgx.Identifier{schema, table}.Sanitize(),
	}
}

const returningColumns = "id::text, application_id::text, type, due_at, title, status, created_at"

// InsertTask inserts record and scans the created row.
func (r *PostgresTaskRepository) InsertTask(ctx context.Context, record TaskRecord) (*Task, error) {
	dueAt, err := time.Parse(time.RFC3339Nano, record.DueAt)
	if err != nil {
		return nil, errors.Wrap(err, "parsing due_at")
	}

	columns := []string{"application_id", "type", "due_at"}
	args := []any{record.ApplicationID, record.Type, dueAt}

	if record.Title != nil {
		columns = append(columns, "title")
		args = append(args, *record.Title)
	}
	if record.Status != nil {
		columns = append(columns, "status")
		args = append(args, *record.Status)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		returningColumns,
	)

	var task Task
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&task.ID,
		&task.ApplicationID,
		&task.Type,
		&task.DueAt,
		&task.Title,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, errors.WithStack(sqlerr.HandleError(err))
	}

	return &task, nil
}

// Ping checks a pooled connection.
func (r *PostgresTaskRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.WithStack(sqlerr.HandleError(err))
	}
	return nil
}
