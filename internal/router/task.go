package router

import (
	"github.com/deppfellow/taskapi/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerTaskRoutes registers the create-task endpoint for every method so
// that the 405 for non-POST requests comes from the handler in the usual
// {"error": ...} shape. The /functions/v1 path matches the URL callers of the
// Supabase functions gateway already use.
func registerTaskRoutes(r *echo.Echo, h *handler.Handlers) {
	r.Any("/create-task", h.Task.CreateTask)
	r.Any("/functions/v1/create-task", h.Task.CreateTask)
}
