package tracker

import "errors"

// Every failed transition is terminal for that request: nothing is retried
// internally and no partial write survives. Callers match with errors.Is and
// decide themselves whether to retry (e.g. re-fetch after ErrConflict).
var (
	ErrSchema             = errors.New("malformed tracker record")
	ErrAlreadyInitialized = errors.New("tracker already initialized")
	ErrNotInitialized     = errors.New("tracker not initialized")
	ErrUnauthorized       = errors.New("capability token rejected")
	ErrSeasonsExhausted   = errors.New("all seasons have already been played")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrSeasonOutOfRange   = errors.New("season index out of range")
	ErrConflict           = errors.New("record changed underneath the write")
	ErrNotFound           = errors.New("no record at this address")
)
