package service

import (
	"tracker/internal/feed"
	"tracker/internal/nlog"
	"tracker/internal/repository"
	"tracker/internal/tracker"

	"github.com/google/uuid"
)

// TransitionResult is what a successfully applied instruction reports back to
// the caller: the new record, the consulted season (for PlaySeason) and the
// epoch of the write, so the caller can track its own staleness.
type TransitionResult struct {
	RequestID   string               `json:"request-id"`
	Address     string               `json:"address"`
	Instruction string               `json:"instruction"`
	Epoch       uint64               `json:"epoch"`
	State       tracker.TrackerState `json:"state"`
	Season      *tracker.Season      `json:"season,omitempty"`
}

// Service used to apply tracker instructions and read the record back
type TrackerService interface {
	Execute(raw []byte, token string) (*TransitionResult, error) // Decodes a raw instruction payload and applies it to the tracker
	CurrentState() (*tracker.TrackerState, uint64, error)        // Returns the persisted record and the epoch of its last write
	Address() string                                             // The tracker's deterministic record address
}

// The local service owns the single authority domain of the record: every
// transition runs through here, one guarded write at a time.
type localTrackerService struct {
	address   string
	processor *tracker.Processor
	accounts  repository.AccountRepository
	publisher feed.Publisher
	logger    nlog.Logger
}

func NewLocalTrackerService(address string, guard tracker.Guard, accounts repository.AccountRepository, publisher feed.Publisher, logger nlog.Logger) TrackerService {
	return &localTrackerService{
		address:   address,
		processor: tracker.NewProcessor(&accountStore{accounts: accounts}, guard),
		accounts:  accounts,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *localTrackerService) Logf(format string, v ...any) {
	s.logger.Logf(format, v...)
}

func (s *localTrackerService) Address() string {
	return s.address
}

func (s *localTrackerService) Execute(raw []byte, token string) (*TransitionResult, error) {
	requestID := uuid.New().String()

	instruction, err := tracker.UnpackInstruction(raw)
	if err != nil {
		s.Logf("[%s] Rejected payload {%v}", requestID, err)
		return nil, err
	}
	s.Logf("[%s] Applying %s", requestID, instruction)

	outcome, err := s.processor.Process(s.address, instruction, token)
	if err != nil {
		s.Logf("[%s] %s failed {%v}", requestID, instruction, err)
		return nil, err
	}

	result := &TransitionResult{
		RequestID:   requestID,
		Address:     s.address,
		Instruction: instruction.String(),
		Epoch:       outcome.Epoch,
		State:       outcome.State,
		Season:      outcome.Season,
	}

	event := feed.TransitionEvent{
		RequestID:     requestID,
		Address:       s.address,
		Epoch:         outcome.Epoch,
		Instruction:   instruction.String(),
		TotalTrophies: outcome.State.TotalTrophies,
		SeasonsPlayed: outcome.State.SeasonsPlayed,
	}
	if outcome.Season != nil {
		event.Season = outcome.Season.Label()
		event.Position = outcome.Season.Position
		event.Points = outcome.Season.Points
		event.Champion = outcome.Season.Champion
	}
	if err := s.publisher.PublishTransition(event); err != nil {
		// The transition is already durable; a dead feed must not fail it.
		s.Logf("[%s] Could not publish the transition {%v}", requestID, err)
	}

	s.Logf("[%s] Applied %s at epoch %d, trophies %d, %d seasons played",
		requestID, instruction, outcome.Epoch, outcome.State.TotalTrophies, outcome.State.SeasonsPlayed)
	return result, nil
}

func (s *localTrackerService) CurrentState() (*tracker.TrackerState, uint64, error) {
	account, err := s.accounts.Get(s.address)
	if err != nil {
		return nil, 0, err
	}
	state, err := tracker.DecodeState(account.Data)
	if err != nil {
		return nil, 0, err
	}
	return &state, account.Epoch, nil
}
