package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tracker/internal/tracker"
)

// Maps a failed transition to its HTTP status. Everything the caller could
// fix or retry sits in the 4xx range; corrupted persisted bytes do not.
func transitionStatus(err error) int {
	switch {
	case errors.Is(err, tracker.ErrUnknownInstruction):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, tracker.ErrNotInitialized), errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrAlreadyInitialized),
		errors.Is(err, tracker.ErrSeasonsExhausted),
		errors.Is(err, tracker.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// Extracts, if possible, the uint64 from value v
// It tries to cast v to uint64 and int, returning the uint64 value
// Otherwise 0 is returned
func extractUint64(v any) uint64 {
	var x uint64
	if val, ok := v.(uint64); ok {
		x = val
	} else if val, ok := v.(int); ok {
		x = uint64(val)
	} else {
		x = 0
	}
	return x
}
