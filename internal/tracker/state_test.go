package tracker

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeLayout(t *testing.T) {
	s := TrackerState{TotalTrophies: 18, CurrentSeason: 2011, SeasonsPlayed: 1}
	data := s.Encode()

	if len(data) != StateSize {
		t.Fatalf("Expected %d bytes, got %d", StateSize, len(data))
	}

	// u64 LE, u16 LE, u8 in that exact order
	expected := []byte{18, 0, 0, 0, 0, 0, 0, 0, 0xDB, 0x07, 1}
	if !bytes.Equal(data, expected) {
		t.Errorf("Wrong layout: got %v, expected %v", data, expected)
	}
}

func TestStateRoundTrip(t *testing.T) {
	states := []TrackerState{
		NewTrackerState(),
		{TotalTrophies: 18, CurrentSeason: 2011, SeasonsPlayed: 1},
		{TotalTrophies: 19, CurrentSeason: 2025, SeasonsPlayed: 15},
		{TotalTrophies: 17, CurrentSeason: 2017, SeasonsPlayed: 7},
	}

	for _, original := range states {
		decoded, err := DecodeState(original.Encode())
		if err != nil {
			t.Errorf("Decode failed for %+v: %v", original, err)
			continue
		}
		if decoded != original {
			t.Errorf("Round trip changed the state: got %+v, expected %+v", decoded, original)
		}
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	for _, size := range []int{0, 10, 12, 22} {
		if _, err := DecodeState(make([]byte, size)); !errors.Is(err, ErrSchema) {
			t.Errorf("Expected ErrSchema for %d bytes, got %v", size, err)
		}
	}
}

func TestDecodeRejectsInvariantViolations(t *testing.T) {
	cases := []struct {
		name  string
		state TrackerState
	}{
		{"too many seasons played", TrackerState{TotalTrophies: 20, CurrentSeason: 2026, SeasonsPlayed: 16}},
		{"season out of step with play count", TrackerState{TotalTrophies: 18, CurrentSeason: 2014, SeasonsPlayed: 1}},
		{"trophies below the starting count", TrackerState{TotalTrophies: 16, CurrentSeason: 2010, SeasonsPlayed: 0}},
	}

	for _, c := range cases {
		if _, err := DecodeState(c.state.Encode()); !errors.Is(err, ErrSchema) {
			t.Errorf("%s: expected ErrSchema, got %v", c.name, err)
		}
	}
}

func TestSeasonLabelAndCompletion(t *testing.T) {
	s := NewTrackerState()
	if s.SeasonLabel() != "2010-2011" {
		t.Errorf("Got label %s, expected 2010-2011", s.SeasonLabel())
	}
	if s.Completed() {
		t.Error("A fresh tracker must not be complete")
	}

	s = TrackerState{TotalTrophies: 19, CurrentSeason: 2025, SeasonsPlayed: 15}
	if !s.Completed() {
		t.Error("A tracker with every season played must be complete")
	}
}
