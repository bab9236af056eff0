// Package service implements the application's business operations,
// orchestrating the stores and media platforms on behalf of the queue
// worker and the HTTP API.
package service
