// Package app provides the application service layer.
//
// Orchestrates the product use cases: listing, lookup through the cache,
// idempotent creation, optimistic-concurrency updates and deletion with cache
// invalidation. Sits between HTTP handlers and domain repositories. Depends on
// domain interfaces, not concrete implementations.
package app
