// Package domain contains the core business entities of the task service:
// tasks with their status and completion-timestamp rules, the principals
// allowed to log in, and the validation of client input into typed changes.
// It has no knowledge of HTTP, storage or tokens.
package domain
