package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/deppfellow/taskapi/internal/repository"
	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/deppfellow/taskapi/internal/validation"
	"github.com/rs/zerolog"
)

// MessageFailedToCreateTask is returned when the store rejects the insert.
const MessageFailedToCreateTask = "Failed to create task"

// Request is the part of an HTTP request the create-task pipeline reads.
type Request struct {
	Method string
	Body   []byte
}

// Response is the status and JSON body to send back.
//
// Body is either a SuccessBody or an *errs.HTTPError.
type Response struct {
	Status int
	Body   any
}

// SuccessBody is the 200 answer of a created task.
type SuccessBody struct {
	Success bool   `json:"success"`
	TaskID  string `json:"task_id"`
}

func errorResponse(err *errs.HTTPError) Response {
	return Response{Status: err.Status, Body: err}
}

// CreateTask runs the create-task pipeline for one request.
//
// Gates are checked in order and the first failure is answered: method,
// body, application_id, task_type, due_at. A valid request inserts exactly
// one row into store. Store failures become a 500 with a generic message and
// anything unexpected, panics included, becomes "Internal server error".
// Details are logged through the logger in ctx, never returned.
func CreateTask(ctx context.Context, req Request, store repository.TaskInserter, now time.Time) (resp Response) {
	logger := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("unhandled error in create-task")
			resp = errorResponse(errs.NewInternalServerError())
		}
	}()

	if req.Method != http.MethodPost {
		return errorResponse(errs.NewMethodNotAllowedError())
	}

	input, err := validation.ValidateCreateTask(req.Body, now)
	if err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return errorResponse(httpErr)
		}
		logger.Error().Err(err).Msg("unexpected validation error")
		return errorResponse(errs.NewInternalServerError())
	}

	record := repository.TaskRecord{
		ApplicationID: input.ApplicationID,
		Type:          input.TaskType,
		DueAt:         validation.FormatTimestamp(input.DueAt),
		Title:         input.Title,
		Status:        input.Status,
	}

	task, err := store.InsertTask(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrMalformedReply) {
			logger.Error().Stack().Err(err).Msg("unhandled error in create-task")
			return errorResponse(errs.NewInternalServerError())
		}

		logger.Error().
			Stack().
			Err(err).
			Fields(sqlerr.LogFields(err)).
			Str("application_id", record.ApplicationID).
			Str("task_type", record.Type).
			Msg("store insert error")
		return errorResponse(errs.NewInternalServerError().WithMessage(MessageFailedToCreateTask))
	}

	if task == nil || task.ID == "" {
		logger.Error().Msg("store returned no task id")
		return errorResponse(errs.NewInternalServerError())
	}

	logger.Info().
		Str("task_id", task.ID).
		Str("application_id", record.ApplicationID).
		Str("task_type", record.Type).
		Str("due_at", record.DueAt).
		Msg("task created")

	return Response{
		Status: http.StatusOK,
		Body:   SuccessBody{Success: true, TaskID: task.ID},
	}
}

// TaskService binds CreateTask to a store and a clock.
type TaskService struct {
	store repository.TaskStore
	now   func() time.Time
}

// NewTaskService returns a TaskService using the wall clock.
func NewTaskService(store repository.TaskStore) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

// Create runs CreateTask against the service's store.
func (s *TaskService) Create(ctx context.Context, req Request) Response {
	return CreateTask(ctx, req, s.store, s.now())
}

// Ping reports whether the store is reachable.
func (s *TaskService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
