// Package cache persists compiled parse tables on disk, keyed by the
// fingerprint of the grammar that produced them, so that re-running the
// generator against an unchanged grammar can skip table construction
// entirely.
package cache

import "errors"

var (
	// ErrNotFound is returned when no cache entry exists for a fingerprint.
	ErrNotFound = errors.New("no cached table for this grammar fingerprint")

	// ErrDecodingFailure wraps a failure to reconstitute a cached table from
	// its stored bytes.
	ErrDecodingFailure = errors.New("cached table could not be decoded")

	// ErrConstraintViolation is returned when a write collides with the
	// (fingerprint, algorithm) uniqueness constraint outside of the normal
	// upsert path.
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
)
