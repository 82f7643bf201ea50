// Package memory provides in-process implementations of the store
// interfaces. The principal store is always in memory; the task store backs
// the "memory" database driver and the service and router tests.
package memory
