// Package repository persists tasks.
//
// Two stores implement the same small interface: a Postgres table reached
// through pgx, and a PostgREST-compatible REST API (the managed database the
// service was first deployed against). Which one is used depends on the
// scheme of the configured store URL.
package repository

import (
	"context"
	"errors"
	"time"
)

// TaskRecord is the row handed to the store.
//
// DueAt is already canonical (UTC, millisecond precision). Title and Status
// are omitted from the insert when nil so column defaults apply.
type TaskRecord struct {
	ApplicationID string  `json:"application_id"`
	Type          string  `json:"type"`
	DueAt         string  `json:"due_at"`
	Title         *string `json:"title,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// Task is a stored row as returned by the store.
type Task struct {
	ID            string     `json:"id"`
	ApplicationID string     `json:"application_id"`
	Type          string     `json:"type"`
	DueAt         time.Time  `json:"due_at"`
	Title         *string    `json:"title"`
	Status        *string    `json:"status"`
	CreatedAt     *time.Time `json:"created_at"`
}

// ErrMalformedReply is returned when the store accepted the insert but its
// answer could not be read.
var ErrMalformedReply = errors.New("malformed store reply")

// TaskInserter inserts one task and returns the stored row.
type TaskInserter interface {
	InsertTask(ctx context.Context, record TaskRecord) (*Task, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TaskStore is what the service layer needs from a store.
type TaskStore interface {
	TaskInserter
	Pinger
}
