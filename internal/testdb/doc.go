// Package testdb provides utilities for database integration tests. Tests
// that use it are skipped unless DATABASE_URL is set.
package testdb
