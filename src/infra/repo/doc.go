// Package repo contains the implementations of the ports.Store interface.
//
//   - PostgresRepository: pgx-backed, used in production.
//   - MemoryRepository: mutex-guarded maps, used for local runs and tests.
//
// Both return domain not found errors for missing records and domain conflict
// errors for duplicate usernames, so use cases can treat them interchangeably.
package repo
