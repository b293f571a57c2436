// Package postgres provides PostgreSQL implementations of the store
// interfaces. All stores operate through the store.DBTX abstraction so the
// same code path serves both plain connections and transactions.
package postgres
