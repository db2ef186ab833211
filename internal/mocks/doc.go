// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, these testify
// mocks of the store, catalog and event interfaces are shared across test
// packages so expectations read the same everywhere.
package mocks
