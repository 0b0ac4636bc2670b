package validation

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/go-playground/validator/v10"
)

// TaskTypes are the accepted values of task_type.
var TaskTypes = []string{"call", "email", "review"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("application_uuid", func(fl validator.FieldLevel) bool {
		return IsValidUUID(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// CreateTaskRequest is the raw payload after JSON decoding.
//
// Fields that were not JSON strings are left empty (or nil for the optional
// ones), so a number in application_id fails the same rule as a missing one.
type CreateTaskRequest struct {
	ApplicationID string `validate:"required,application_uuid"`
	TaskType      string `validate:"required,oneof=call email review"`

	dueAt       string
	dueAtString bool

	Title  *string
	Status *string
}

// CreateTask is a payload that passed every rule.
type CreateTask struct {
	ApplicationID string
	TaskType      string
	DueAt         time.Time
	Title         *string
	Status        *string
}

// DecodeCreateTask decodes body into a CreateTaskRequest.
//
// An empty body, malformed JSON, or a JSON value that is null, false, 0 or ""
// is rejected. Any other non-object value decodes to a request with no fields.
func DecodeCreateTask(body []byte) (*CreateTaskRequest, error) {
	var raw any
	if len(body) == 0 || json.Unmarshal(body, &raw) != nil || isFalsy(raw) {
		return nil, errs.NewBadRequestError(MessageInvalidJSON)
	}

	fields, _ := raw.(map[string]any)
	req := &CreateTaskRequest{}

	req.ApplicationID, _ = fields["application_id"].(string)
	req.TaskType, _ = fields["task_type"].(string)
	req.dueAt, req.dueAtString = fields["due_at"].(string)
	req.Title = stringField(fields, "title")
	req.Status = stringField(fields, "status")

	return req, nil
}

func isFalsy(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	}
	return false
}

func stringField(fields map[string]any, key string) *string {
	if s, ok := fields[key].(string); ok {
		return &s
	}
	return nil
}

// Validate applies the field rules in order and returns the first failure.
func (r *CreateTaskRequest) Validate(now time.Time) (*CreateTask, error) {
	if err := validate.Struct(r); err != nil {
		return nil, extractValidationError(err)
	}

	if !r.dueAtString {
		return nil, errs.NewBadRequestError(MessageMissingDueAt)
	}

	dueAt, ok := ParseTimestamp(r.dueAt)
	if !ok {
		return nil, errs.NewBadRequestError(MessageInvalidDueAtFormat)
	}

	if !dueAt.After(now) {
		return nil, errs.NewBadRequestError(MessageDueAtNotInFuture)
	}

	return &CreateTask{
		ApplicationID: r.ApplicationID,
		TaskType:      r.TaskType,
		DueAt:         dueAt,
		Title:         r.Title,
		Status:        r.Status,
	}, nil
}

// extractValidationError maps the first failing field to its message.
func extractValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err
	}

	switch validationErrors[0].Field() {
	case "ApplicationID":
		return errs.NewBadRequestError(MessageInvalidApplicationID)
	default:
		return errs.NewBadRequestError(MessageInvalidTaskType)
	}
}

// ValidateCreateTask decodes and validates body against now.
func ValidateCreateTask(body []byte, now time.Time) (*CreateTask, error) {
	req, err := DecodeCreateTask(body)
	if err != nil {
		return nil, err
	}
	return req.Validate(now)
}
