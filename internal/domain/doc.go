// Package domain defines the core business entities of the progress engine:
// completion events, derived student metrics, spaced-repetition review items,
// and achievements.
package domain
