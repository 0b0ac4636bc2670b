package repository

import (
	"github.com/deppfellow/taskapi/internal/server"
)

// Repositories holds the repository instances the services depend on.
type Repositories struct {
	Tasks TaskStore
}

// NewRepositories picks the task store for s.
//
// When s.DB is set (a postgres:// store URL) tasks go through the pool;
// otherwise the store URL is a REST endpoint.
func NewRepositories(s *server.Server) *Repositories {
	if s.DB != nil {
		return &Repositories{
			Tasks: NewPostgresTaskRepository(s.DB.Pool, s.Config.Store.Schema, s.Config.Store.Table),
		}
	}

	return &Repositories{
		Tasks: NewRESTTaskRepository(s.Config.Store, nil),
	}
}
