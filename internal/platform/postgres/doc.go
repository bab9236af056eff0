// Package postgres provides PostgreSQL implementations of the store
// interfaces. Database errors are translated into the sentinel errors of
// the store package so callers never match on driver-specific errors.
package postgres
