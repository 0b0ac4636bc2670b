// Package validation checks create-task payloads.
//
// Field rules are expressed as `validator` struct tags where the library can
// express them (the UUID shape is a custom tag). The timestamp rules are
// checked by hand because they depend on the time of the request. The first
// failing rule wins and becomes a 400 *errs.HTTPError carrying one of the
// fixed messages below.
package validation

const (
	MessageInvalidJSON          = "Invalid JSON body"
	MessageInvalidApplicationID = "Invalid or missing application_id (must be UUID)"
	MessageInvalidTaskType      = "Invalid task_type. Must be one of: call, email, review"
	MessageMissingDueAt         = "Invalid or missing due_at (ISO timestamp string expected)"
	MessageInvalidDueAtFormat   = "Invalid due_at format. Use ISO 8601 timestamp."
	MessageDueAtNotInFuture     = "due_at must be a future timestamp"
)
