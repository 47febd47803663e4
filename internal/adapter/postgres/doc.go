// Package postgres provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling and tern for migrations. Migration files are
// embedded and applied under an advisory lock so concurrent instances don't race.
// Repositories implement domain interfaces: ProductRepository, IdempotencyRepository.
package postgres
