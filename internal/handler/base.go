package handler

import (
	"context"
	"io"
	"time"

	"github.com/deppfellow/taskapi/internal/middleware"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Handler holds the shared application dependencies for concrete handlers.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// ServiceFunc answers one raw request.
type ServiceFunc func(ctx context.Context, req service.Request) service.Response

// handleRequest is the shared pipeline for raw-body endpoints:
//
// - read the body (size bounded by the BodyLimit middleware)
// - pass method and body to fn with the request logger in ctx
// - record timings and New Relic attributes
// - write fn's response as JSON
func handleRequest(c echo.Context, operation string, fn ServiceFunc) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", operation).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errors.Wrap(err, "reading request body")
	}

	ctx := logger.WithContext(c.Request().Context())

	handlerStart := time.Now()
	resp := fn(ctx, service.Request{
		Method: c.Request().Method,
		Body:   body,
	})
	handlerDuration := time.Since(handlerStart)
	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		txn.AddAttribute("request.body_bytes", len(body))
	}

	if resp.Status >= 400 {
		var e *zerolog.Event
		if resp.Status >= 500 {
			e = logger.Error()
			if err, ok := resp.Body.(error); ok && txn != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
		} else {
			e = logger.Warn()
		}

		if txn != nil {
			txn.AddAttribute("handler.status", "rejected")
		}

		e.Int("status", resp.Status).
			Interface("response", resp.Body).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("request rejected")
	} else {
		if txn != nil {
			txn.AddAttribute("handler.status", "success")
		}

		logger.Info().
			Int("status", resp.Status).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("request completed successfully")
	}

	return c.JSON(resp.Status, resp.Body)
}
