// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and TASKAPI_-prefixed environment
// variables. It provides type-safe access to server, database and auth
// settings while keeping configuration details separate from business logic.
package config
