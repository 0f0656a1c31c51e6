package tracker

import (
	"encoding/binary"
	"fmt"
)

const (
	StartingSeason  uint16 = 2010
	EndingSeason    uint16 = 2024
	InitialTrophies uint64 = 17

	// Serialized size of a TrackerState: u64 + u16 + u8, little-endian.
	StateSize = 11
)

// TrackerState is the single persisted record of the tracker: how many league
// titles have been counted so far and which season gets played next.
type TrackerState struct {
	TotalTrophies uint64 `json:"total-trophies"` // Total league championships, never decreases
	CurrentSeason uint16 `json:"current-season"` // Year of the next season to play (2010 means 2010-2011)
	SeasonsPlayed uint8  `json:"seasons-played"` // Seasons already played, bounded by the catalog length
}

// NewTrackerState returns the record as written by the Initialize instruction.
func NewTrackerState() TrackerState {
	return TrackerState{
		TotalTrophies: InitialTrophies,
		CurrentSeason: StartingSeason,
		SeasonsPlayed: 0,
	}
}

// Encode serializes the state into its fixed 11-byte layout.
// Field order and width are part of the wire format and must not change.
func (s TrackerState) Encode() []byte {
	buf := make([]byte, StateSize)
	binary.LittleEndian.PutUint64(buf[0:8], s.TotalTrophies)
	binary.LittleEndian.PutUint16(buf[8:10], s.CurrentSeason)
	buf[10] = s.SeasonsPlayed
	return buf
}

// DecodeState parses the fixed layout back into a TrackerState.
// Bytes that do not satisfy the record invariants are rejected with ErrSchema,
// so a corrupted row can never reach the processor.
func DecodeState(data []byte) (TrackerState, error) {
	if len(data) != StateSize {
		return TrackerState{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrSchema, StateSize, len(data))
	}
	s := TrackerState{
		TotalTrophies: binary.LittleEndian.Uint64(data[0:8]),
		CurrentSeason: binary.LittleEndian.Uint16(data[8:10]),
		SeasonsPlayed: data[10],
	}
	if int(s.SeasonsPlayed) > SeasonCount {
		return TrackerState{}, fmt.Errorf("%w: %d seasons played but the catalog has %d", ErrSchema, s.SeasonsPlayed, SeasonCount)
	}
	if s.CurrentSeason != StartingSeason+uint16(s.SeasonsPlayed) {
		return TrackerState{}, fmt.Errorf("%w: season %d does not match %d seasons played", ErrSchema, s.CurrentSeason, s.SeasonsPlayed)
	}
	if s.TotalTrophies < InitialTrophies {
		return TrackerState{}, fmt.Errorf("%w: trophy count %d below the starting %d", ErrSchema, s.TotalTrophies, InitialTrophies)
	}
	return s, nil
}

// SeasonLabel returns the human form of the season to be played next, e.g. "2010-2011".
func (s TrackerState) SeasonLabel() string {
	return fmt.Sprintf("%d-%d", s.CurrentSeason, s.CurrentSeason+1)
}

// Completed reports whether every catalog season has been played.
func (s TrackerState) Completed() bool {
	return int(s.SeasonsPlayed) == SeasonCount
}
