// Package router builds the Echo instance: global middleware in order, then
// the system and task routes.
package router

import (
	"github.com/deppfellow/taskapi/internal/handler"
	"github.com/deppfellow/taskapi/internal/middleware"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// BodyLimit caps request bodies; larger ones get 413.
const BodyLimit = "1M"

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		echoMiddleware.BodyLimit(BodyLimit),
	)

	registerSystemRoutes(router, h)
	registerTaskRoutes(router, h)

	return router
}
