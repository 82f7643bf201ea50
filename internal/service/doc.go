// Package service holds the task lifecycle engine: input validation,
// completion timestamp derivation and pagination on top of a store.TaskStore.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete store. Expected failures surface as the
// sentinel errors of the domain and store packages; anything else is wrapped
// in a *TaskServiceError and reported as an internal error by the API layer.
package service
