// Package sqlerr normalises errors reported by the task store.
//
// Both store drivers end up here: the Postgres driver hands over a
// *pgconn.PgError and the REST driver hands over the decoded PostgREST error
// body. Each becomes an *Error with a stable Code, so callers and logs do not
// care which driver produced it.
//
// None of this reaches API clients. Store failures are always answered with a
// generic message; the structured fields are for operators.
package sqlerr
