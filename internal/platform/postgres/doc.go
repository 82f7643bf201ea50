// Package postgres provides the PostgreSQL implementation of the task store
// defined in internal/store, together with the embedded goose migrations
// that create its schema. Driver errors are translated into store sentinels
// by MapError.
package postgres
