// Package postgres implements the interfaces in internal/store on PostgreSQL
// through database/sql and the pgx driver. Stores accept a store.DBTX so they
// run against either a pool or a transaction. Driver errors are mapped to
// store errors by MapError; schema migrations are embedded and applied with
// goose through Migrate.
package postgres
