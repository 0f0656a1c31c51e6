package tracker

import (
	"errors"
	"fmt"
)

// StoredRecord is the raw persisted form of the tracker record, as the storage
// accessor sees it: opaque bytes plus the owner credential and the version the
// optimistic write is guarded on.
type StoredRecord struct {
	Address   string
	Data      []byte
	OwnerHash string
	Version   uint64
}

// Store is the storage accessor the processor mutates records through.
// The processor itself never talks to a database or the network.
type Store interface {
	Read(address string) (StoredRecord, error) // ErrNotFound when the address holds nothing
	Insert(rec StoredRecord) (uint64, error)   // ErrAlreadyInitialized when the address is taken; returns the write epoch
	Save(rec StoredRecord) (uint64, error)     // ErrConflict when rec.Version is stale; returns the write epoch
}

// Guard checks caller-presented capability tokens.
type Guard interface {
	VerifyDerived(address, token string) bool     // Token against the service's own derivation for the address
	HashToken(token string) (string, error)       // At-rest owner credential for a freshly created record
	VerifyOwner(ownerHash, token string) bool     // Token against the credential stored on the record
}

// Outcome is what a successful transition reports back. The consulted season
// is a side channel for observability, not part of the persisted record.
type Outcome struct {
	Instruction Instruction
	State       TrackerState
	Season      *Season // nil for Initialize
	Epoch       uint64
}

// Processor applies the two tracker transitions. Each call observes one
// consistent prior state and persists the next one as a single guarded write;
// on any failure the prior persisted state is untouched.
type Processor struct {
	store Store
	guard Guard
}

func NewProcessor(store Store, guard Guard) *Processor {
	return &Processor{store: store, guard: guard}
}

// Process routes a decoded instruction to its transition.
func (p *Processor) Process(address string, instruction Instruction, token string) (*Outcome, error) {
	switch instruction {
	case InstructionInitialize:
		return p.initialize(address, token)
	case InstructionPlaySeason:
		return p.playSeason(address, token)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, uint8(instruction))
	}
}

// initialize writes the starting record {17 trophies, season 2010, 0 played}.
// It fails if the address already holds a record that still decodes.
func (p *Processor) initialize(address, token string) (*Outcome, error) {
	if !p.guard.VerifyDerived(address, token) {
		return nil, ErrUnauthorized
	}

	ownerHash, err := p.guard.HashToken(token)
	if err != nil {
		return nil, err
	}
	state := NewTrackerState()
	fresh := StoredRecord{Address: address, Data: state.Encode(), OwnerHash: ownerHash}

	existing, err := p.store.Read(address)
	if errors.Is(err, ErrNotFound) {
		epoch, err := p.store.Insert(fresh)
		if err != nil {
			return nil, err
		}
		return &Outcome{Instruction: InstructionInitialize, State: state, Epoch: epoch}, nil
	}
	if err != nil {
		return nil, err
	}

	if _, derr := DecodeState(existing.Data); derr == nil {
		return nil, ErrAlreadyInitialized
	}

	// The address holds bytes that no longer decode: the record counts as
	// uninitialized and the address is reclaimed under its stored version.
	fresh.Version = existing.Version
	epoch, err := p.store.Save(fresh)
	if err != nil {
		return nil, err
	}
	return &Outcome{Instruction: InstructionInitialize, State: state, Epoch: epoch}, nil
}

// playSeason consults the catalog entry for the next unplayed season, bumps
// the trophy count on a championship, and advances the record by one step.
func (p *Processor) playSeason(address, token string) (*Outcome, error) {
	rec, err := p.store.Read(address)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, err
	}
	if !p.guard.VerifyOwner(rec.OwnerHash, token) {
		return nil, ErrUnauthorized
	}

	state, err := DecodeState(rec.Data)
	if err != nil {
		return nil, err
	}
	if state.Completed() {
		return nil, ErrSeasonsExhausted
	}

	season, err := SeasonAt(int(state.SeasonsPlayed))
	if err != nil {
		return nil, err
	}
	if season.Champion {
		state.TotalTrophies++
	}
	state.SeasonsPlayed++
	state.CurrentSeason = StartingSeason + uint16(state.SeasonsPlayed)

	rec.Data = state.Encode()
	epoch, err := p.store.Save(rec)
	if err != nil {
		return nil, err
	}
	return &Outcome{Instruction: InstructionPlaySeason, State: state, Season: &season, Epoch: epoch}, nil
}
