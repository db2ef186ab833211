// Package store defines the persistence interfaces for the progress engine
// and shared helpers (transactions, common errors) used by every backend
// implementation.
package store
