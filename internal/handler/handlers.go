package handler

import (
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Task    *TaskHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s, services.Task),
		OpenAPI: NewOpenAPIHandler(s),
		Task:    NewTaskHandler(s, services.Task),
	}
}
