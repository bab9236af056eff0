// Package api implements the HTTP handlers for the queue and grading
// endpoints. Handlers translate requests into domain operations and map
// domain errors to HTTP status codes; no business logic lives here.
package api
