package service

import (
	"github.com/deppfellow/taskapi/internal/repository"
	"github.com/deppfellow/taskapi/internal/server"
)

type Services struct {
	Task *TaskService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	s.Logger.Info().
		Bool("postgres", s.Config.Store.IsPostgres()).
		Str("schema", s.Config.Store.Schema).
		Str("table", s.Config.Store.Table).
		Msg("task store configured")

	return &Services{
		Task: NewTaskService(repos.Tasks),
	}, nil
}
