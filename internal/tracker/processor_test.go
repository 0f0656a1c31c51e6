package tracker

import (
	"errors"
	"testing"
)

// memStore keeps one record in memory and enforces the same guarantees the
// real accessor does: insert-once and version-guarded saves.
type memStore struct {
	rec      *StoredRecord
	epoch    uint64
	failSave error
}

func (m *memStore) Read(address string) (StoredRecord, error) {
	if m.rec == nil || m.rec.Address != address {
		return StoredRecord{}, ErrNotFound
	}
	return *m.rec, nil
}

func (m *memStore) Insert(rec StoredRecord) (uint64, error) {
	if m.rec != nil && m.rec.Address == rec.Address {
		return 0, ErrAlreadyInitialized
	}
	rec.Version = 1
	m.rec = &rec
	m.epoch++
	return m.epoch, nil
}

func (m *memStore) Save(rec StoredRecord) (uint64, error) {
	if m.failSave != nil {
		return 0, m.failSave
	}
	if m.rec == nil || m.rec.Version != rec.Version {
		return 0, ErrConflict
	}
	rec.Version++
	m.rec = &rec
	m.epoch++
	return m.epoch, nil
}

// mockGuard accepts the token "good" and stores credentials as "hash:" + token.
type mockGuard struct{}

func (mockGuard) VerifyDerived(address, token string) bool { return token == "good" }
func (mockGuard) HashToken(token string) (string, error)   { return "hash:" + token, nil }
func (mockGuard) VerifyOwner(ownerHash, token string) bool { return ownerHash == "hash:"+token }

const testAddress = "aabbcc"

func TestInitializeHappyPath(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})

	out, err := p.Process(testAddress, InstructionInitialize, "good")
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	expected := TrackerState{TotalTrophies: 17, CurrentSeason: 2010, SeasonsPlayed: 0}
	if out.State != expected {
		t.Errorf("Got state %+v, expected %+v", out.State, expected)
	}
	if out.Season != nil {
		t.Error("Initialize must not consult a season")
	}
	if out.Epoch != 1 {
		t.Errorf("Got epoch %d, expected 1", out.Epoch)
	}
	if store.rec.OwnerHash != "hash:good" {
		t.Errorf("Owner credential not pinned: %q", store.rec.OwnerHash)
	}
}

func TestInitializeIsExactlyOnce(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})

	if _, err := p.Process(testAddress, InstructionInitialize, "good"); err != nil {
		t.Fatalf("First initialize failed: %v", err)
	}
	if _, err := p.Process(testAddress, InstructionInitialize, "good"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("Expected ErrAlreadyInitialized on the second attempt, got %v", err)
	}
}

func TestInitializeRejectsBadToken(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})

	if _, err := p.Process(testAddress, InstructionInitialize, "bad"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if store.rec != nil {
		t.Error("A rejected initialize must not write anything")
	}
}

func TestInitializeReclaimsCorruptRecord(t *testing.T) {
	store := &memStore{rec: &StoredRecord{
		Address: testAddress,
		Data:    []byte{1, 2, 3},
		Version: 4,
	}}
	p := NewProcessor(store, mockGuard{})

	out, err := p.Process(testAddress, InstructionInitialize, "good")
	if err != nil {
		t.Fatalf("Initialize over a corrupt record failed: %v", err)
	}
	if out.State != NewTrackerState() {
		t.Errorf("Got state %+v, expected a fresh record", out.State)
	}
	if store.rec.Version != 5 {
		t.Errorf("Reclaim must go through the guarded save, version is %d", store.rec.Version)
	}
}

func TestPlaySeasonBeforeInitialize(t *testing.T) {
	p := NewProcessor(&memStore{}, mockGuard{})

	if _, err := p.Process(testAddress, InstructionPlaySeason, "good"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestPlaySeasonRejectsNonOwner(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})
	if _, err := p.Process(testAddress, InstructionInitialize, "good"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if _, err := p.Process(testAddress, InstructionPlaySeason, "stolen"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestPlaySeasonProgression(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})
	if _, err := p.Process(testAddress, InstructionInitialize, "good"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	// 2010-2011 was a championship season
	out, err := p.Process(testAddress, InstructionPlaySeason, "good")
	if err != nil {
		t.Fatalf("First play failed: %v", err)
	}
	if expected := (TrackerState{TotalTrophies: 18, CurrentSeason: 2011, SeasonsPlayed: 1}); out.State != expected {
		t.Errorf("Got %+v, expected %+v", out.State, expected)
	}
	if out.Season == nil || !out.Season.Champion || out.Season.Year != 2010 {
		t.Errorf("Wrong consulted season: %+v", out.Season)
	}

	// 2011-2012 was not
	out, err = p.Process(testAddress, InstructionPlaySeason, "good")
	if err != nil {
		t.Fatalf("Second play failed: %v", err)
	}
	if expected := (TrackerState{TotalTrophies: 18, CurrentSeason: 2012, SeasonsPlayed: 2}); out.State != expected {
		t.Errorf("Got %+v, expected %+v", out.State, expected)
	}
}

func TestPlayEverySeason(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})
	if _, err := p.Process(testAddress, InstructionInitialize, "good"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var last *Outcome
	for i := 0; i < SeasonCount; i++ {
		out, err := p.Process(testAddress, InstructionPlaySeason, "good")
		if err != nil {
			t.Fatalf("Play %d failed: %v", i, err)
		}
		last = out
	}

	expected := TrackerState{TotalTrophies: 19, CurrentSeason: 2025, SeasonsPlayed: 15}
	if last.State != expected {
		t.Errorf("Got final state %+v, expected %+v", last.State, expected)
	}
}

func TestPlayAfterExhaustion(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})
	if _, err := p.Process(testAddress, InstructionInitialize, "good"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	for i := 0; i < SeasonCount; i++ {
		if _, err := p.Process(testAddress, InstructionPlaySeason, "good"); err != nil {
			t.Fatalf("Play %d failed: %v", i, err)
		}
	}
	before := *store.rec

	if _, err := p.Process(testAddress, InstructionPlaySeason, "good"); !errors.Is(err, ErrSeasonsExhausted) {
		t.Errorf("Expected ErrSeasonsExhausted, got %v", err)
	}
	if store.rec.Version != before.Version {
		t.Error("An exhausted play must leave the record untouched")
	}
}

func TestPlaySeasonConflictLeavesState(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})
	if _, err := p.Process(testAddress, InstructionInitialize, "good"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	store.failSave = ErrConflict
	before := *store.rec

	if _, err := p.Process(testAddress, InstructionPlaySeason, "good"); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
	after, _ := DecodeState(store.rec.Data)
	want, _ := DecodeState(before.Data)
	if after != want {
		t.Error("A conflicting save must leave the persisted state unchanged")
	}
}

func TestUnknownInstructionTouchesNothing(t *testing.T) {
	store := &memStore{}
	p := NewProcessor(store, mockGuard{})

	if _, err := p.Process(testAddress, Instruction(7), "good"); !errors.Is(err, ErrUnknownInstruction) {
		t.Errorf("Expected ErrUnknownInstruction, got %v", err)
	}
	if store.rec != nil {
		t.Error("An unknown instruction must not write anything")
	}
}
