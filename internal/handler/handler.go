// Package handler is the HTTP layer between the router and the services.
//
// Handlers read the request, hand it to a service and write the service's
// answer back as JSON. They add tracing attributes and request timings but
// make no decisions of their own.
package handler
