// Package sqlite provides a GORM-backed task store on an embedded SQLite
// database, used for local development without a PostgreSQL server.
// Soft deletion is delegated to gorm.DeletedAt.
package sqlite
