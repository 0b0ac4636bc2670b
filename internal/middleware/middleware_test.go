package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/taskapi/internal/config"
	"github.com/deppfellow/taskapi/internal/errs"
	"github.com/deppfellow/taskapi/internal/server"
	"github.com/deppfellow/taskapi/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, logs *bytes.Buffer) *server.Server {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Store.URL = "https://project.supabase.co"
	cfg.Store.ServiceKey = "key"

	logger := zerolog.New(logs)
	return &server.Server{Config: cfg, Logger: &logger}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	mw := NewMiddlewares(s)
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(
		mw.RateLimit.Limit(),
		RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)
	return e
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGlobalErrorHandler(t *testing.T) {
	var logs bytes.Buffer
	e := newEcho(newTestServer(t, &logs))

	e.GET("/bad", func(c echo.Context) error {
		return errs.NewBadRequestError("Invalid JSON body")
	})
	e.GET("/store", func(c echo.Context) error {
		return errors.WithStack(&sqlerr.Error{Code: sqlerr.UniqueViolation, DatabaseCode: "23505", Message: "duplicate key"})
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})
	e.GET("/echo413", func(c echo.Context) error {
		return echo.ErrStatusRequestEntityTooLarge
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/bad", http.StatusBadRequest, `{"error":"Invalid JSON body"}`},
		{"/store", http.StatusInternalServerError, `{"error":"Internal server error"}`},
		{"/panic", http.StatusInternalServerError, `{"error":"Internal server error"}`},
		{"/missing", http.StatusNotFound, `{"error":"Route not found"}`},
		{"/echo413", http.StatusRequestEntityTooLarge, `{"error":"Request Entity Too Large"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(e, http.MethodGet, tt.path)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}

	assert.Contains(t, logs.String(), "duplicate key")
}

func TestRequestID(t *testing.T) {
	var logs bytes.Buffer
	e := newEcho(newTestServer(t, &logs))
	e.GET("/id", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := serve(e, http.MethodGet, "/id")
	generated := rec.Header().Get(RequestIDHeader)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())
	assert.Contains(t, logs.String(), `"request_id":"`+generated+`"`)

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &logs)
	s.Config.Server.RateLimit = 0.001
	s.Config.Server.RateBurst = 2

	e := newEcho(s)
	e.GET("/limited", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/status", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/limited").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/limited").Code)

	rec := serve(e, http.MethodGet, "/limited")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())

	for range 5 {
		assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/status").Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	var logs bytes.Buffer
	s := newTestServer(t, &logs)
	s.Config.Server.RateLimit = 0

	e := newEcho(s)
	e.GET("/open", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for range 50 {
		assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/open").Code)
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.Empty(t, GetRequestID(c))
}
