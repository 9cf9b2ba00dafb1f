// Package api exposes the assessment service over HTTP. Handlers decode and
// validate answer sets, call the service, and map domain and store errors
// onto status codes with messages that are safe to show to clients.
package api
