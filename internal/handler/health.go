package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/taskapi/internal/middleware"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/labstack/echo/v4"
)

// StorePinger is the part of the task service the health check needs.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the service and its task store are up.
type HealthHandler struct {
	Handler
	store StorePinger
}

func NewHealthHandler(s *server.Server, store StorePinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		store:   store,
	}
}

const healthCheckTimeout = 5 * time.Second

// CheckHealth pings the task store and answers 200 when it is reachable,
// 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	storeKind := "rest"
	if h.server.Config.Store.IsPostgres() {
		storeKind = "postgres"
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}
	checks := response["checks"].(map[string]interface{})

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	storeStart := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = map[string]interface{}{
			"status":        "unhealthy",
			"kind":          storeKind,
			"response_time": time.Since(storeStart).String(),
			"error":         string(sqlerr.ErrCode(err)),
		}
		response["status"] = "unhealthy"

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(storeStart)).
			Msg("store health check failed")

		if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
			h.server.LoggerService.GetApplication().RecordCustomEvent(
				"HealthCheckError",
				map[string]interface{}{
					"check_type":       "store",
					"store_kind":       storeKind,
					"error_type":       string(sqlerr.ErrCode(err)),
					"response_time_ms": time.Since(storeStart).Milliseconds(),
				},
			)
		}

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	checks["store"] = map[string]interface{}{
		"status":        "healthy",
		"kind":          storeKind,
		"response_time": time.Since(storeStart).String(),
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}
