package services

import "errors"

// Error taxonomy for the recognition/resolution pipeline. Transport-level
// failures propagate typed so the API layer can show a specific message;
// "nothing found" outcomes are not errors.
var (
	// ErrDetectionTransport covers network, auth and 5xx failures
	// reaching the vision provider.
	ErrDetectionTransport = errors.New("vision provider unreachable")

	// ErrImageUnreadable means the image payload could not be decoded
	// or read before it ever reached the provider.
	ErrImageUnreadable = errors.New("image unreadable")

	// ErrLookupTransport aborts the whole resolution cascade. A 404 or
	// empty result from the lookup is not transport failure and moves
	// the cascade to the next strategy instead.
	ErrLookupTransport = errors.New("nutrition lookup unreachable")

	// ErrNoNutritionMatch is the terminal "every fallback exhausted"
	// outcome. The generic-placeholder strategy makes it unreachable in
	// practice for non-empty labels, but it stays representable.
	ErrNoNutritionMatch = errors.New("no nutrition match")
)
