// Package middleware holds the Echo middleware wrapped around every route.
//
// These intercept requests to handle cross-cutting concerns such as request
// IDs, request-scoped logging, tracing, CORS, rate limiting and panic
// recovery, plus the global error handler that shapes every error response
// as {"error": "..."}.
package middleware
