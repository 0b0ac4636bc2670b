package handler

import (
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
)

// TaskHandler serves the create-task endpoint.
type TaskHandler struct {
	Handler
	tasks *service.TaskService
}

func NewTaskHandler(s *server.Server, tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{
		Handler: NewHandler(s),
		tasks:   tasks,
	}
}

// CreateTask accepts every method; anything but POST is answered with 405 by
// the service.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	return handleRequest(c, "create_task", h.tasks.Create)
}
