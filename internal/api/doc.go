// Package api contains the HTTP handlers. Handlers decode and validate the
// request, call a service, and translate the result: errors go through
// HandleAPIError, which maps them to a status code and a message that never
// carries internal detail.
package api
