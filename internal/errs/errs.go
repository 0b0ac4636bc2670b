// Package errs defines the error types returned to API clients.
//
// Every client-facing failure is an *HTTPError. It carries the HTTP status
// and a fixed, human readable message, and serialises as
//
//	{ "error": "<message>" }
//
// Internal detail (driver errors, stack traces) never goes into an HTTPError.
// It is logged next to it instead.
package errs
