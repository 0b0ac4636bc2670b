// Package service contains the business logic.
//
// It sits between the handler and repository layers. Handlers hand it the
// raw request, it validates, builds the task record and calls the
// repository, and it returns the status and body the handler should write.
package service
