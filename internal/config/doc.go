// Package config handles configuration loading, parsing, and validation
// from environment variables, an optional .env file and an optional
// config.yaml. It provides type-safe access to the settings needed by the
// credential cache, the worker pool and notification delivery while keeping
// configuration details separate from business logic.
package config
