// Package api adapts HTTP requests to the task and auth services: it decodes
// bodies and path parameters, calls the services, and writes the JSON
// envelopes clients see. Errors are mapped to status codes in errors.go.
package api
