// Package postgres implements the store interfaces against PostgreSQL.
// Every query binds parameters; no SQL is built from strings. Timestamps
// are produced by the database clock (now()) so TTL math and transaction
// records share one time source. Active-scoped uniqueness (usernames,
// per-user deposit names) is backed by partial unique indexes, see the
// migrations.
package postgres
