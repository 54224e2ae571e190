package model

import "github.com/rotisserie/eris"

// Sentinel errors for the engine's taxonomy. Callers match with eris.Is
// after any amount of wrapping.
var (
	// ErrNotFound is returned for lookups by unknown point id.
	ErrNotFound = eris.New("point not found")

	// ErrMalformedRecord is returned for an input record whose geometry is
	// missing or non-numeric. Recoverable per record unless strict loading
	// is configured.
	ErrMalformedRecord = eris.New("malformed record")

	// ErrConfiguration is returned for invalid analysis parameters. Always
	// fatal and raised before any stage runs.
	ErrConfiguration = eris.New("invalid configuration")
)
