// Package sqlerr classifies low-level database errors.
//
// It converts pgx/pgconn errors (constraint violations, missing rows,
// connection failures) into application-level errs.HTTPError values so
// repositories and services never leak raw SQLSTATE details to clients.
package sqlerr
