package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tracker/internal/service"
	"tracker/internal/tracker"

	"github.com/gorilla/sessions"
)

type mockTrackerService struct {
	executeResult *service.TransitionResult
	executeErr    error
	lastPayload   []byte
	lastToken     string

	state    *tracker.TrackerState
	epoch    uint64
	stateErr error
}

func (m *mockTrackerService) Execute(raw []byte, token string) (*service.TransitionResult, error) {
	m.lastPayload = raw
	m.lastToken = token
	return m.executeResult, m.executeErr
}

func (m *mockTrackerService) CurrentState() (*tracker.TrackerState, uint64, error) {
	return m.state, m.epoch, m.stateErr
}

func (m *mockTrackerService) Address() string { return "aabbcc" }

type mockEpochCache struct {
	epoch uint64
}

func (m *mockEpochCache) UpdateEpochCache(e uint64) { m.epoch = e }
func (m *mockEpochCache) GetCachedEpoch() uint64    { return m.epoch }

func newTestHandler(svc *mockTrackerService, cache *mockEpochCache) *TrackerHandler {
	return NewTrackerHandler(svc, sessions.NewCookieStore([]byte("test-key")), nil, cache)
}

func TestSubmitInstructionSuccess(t *testing.T) {
	svc := &mockTrackerService{
		executeResult: &service.TransitionResult{
			RequestID:   "req-1",
			Address:     "aabbcc",
			Instruction: "Initialize",
			Epoch:       1,
			State:       tracker.NewTrackerState(),
		},
	}
	cache := &mockEpochCache{}
	h := newTestHandler(svc, cache)

	req := httptest.NewRequest(http.MethodPost, "/instruction", bytes.NewReader([]byte{0}))
	req.Header.Set("X-Capability", "token-1")
	rec := httptest.NewRecorder()

	h.SubmitInstruction(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Got status %d, expected 200: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(svc.lastPayload, []byte{0}) {
		t.Errorf("Service received payload %v, expected the raw body", svc.lastPayload)
	}
	if svc.lastToken != "token-1" {
		t.Errorf("Service received token %q, expected the X-Capability header", svc.lastToken)
	}
	if cache.epoch != 1 {
		t.Errorf("Epoch cache holds %d, expected 1", cache.epoch)
	}

	var result service.TransitionResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if result.RequestID != "req-1" || result.Epoch != 1 {
		t.Errorf("Wrong response body: %+v", result)
	}
}

func TestSubmitInstructionStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{tracker.ErrUnknownInstruction, http.StatusBadRequest},
		{tracker.ErrUnauthorized, http.StatusUnauthorized},
		{tracker.ErrNotInitialized, http.StatusNotFound},
		{tracker.ErrAlreadyInitialized, http.StatusConflict},
		{tracker.ErrSeasonsExhausted, http.StatusConflict},
		{tracker.ErrConflict, http.StatusConflict},
		{tracker.ErrSchema, http.StatusInternalServerError},
	}

	for _, c := range cases {
		h := newTestHandler(&mockTrackerService{executeErr: c.err}, &mockEpochCache{})
		req := httptest.NewRequest(http.MethodPost, "/instruction", bytes.NewReader([]byte{1}))
		rec := httptest.NewRecorder()

		h.SubmitInstruction(rec, req)

		if rec.Code != c.status {
			t.Errorf("%v: got status %d, expected %d", c.err, rec.Code, c.status)
		}
	}
}

func TestStateEndpoint(t *testing.T) {
	state := tracker.TrackerState{TotalTrophies: 18, CurrentSeason: 2011, SeasonsPlayed: 1}
	h := newTestHandler(&mockTrackerService{state: &state, epoch: 3}, &mockEpochCache{})

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	rec := httptest.NewRecorder()

	h.State(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Got status %d, expected 200", rec.Code)
	}

	var body struct {
		Address string               `json:"address"`
		Epoch   uint64               `json:"epoch"`
		State   tracker.TrackerState `json:"state"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	if body.Address != "aabbcc" || body.Epoch != 3 || body.State != state {
		t.Errorf("Wrong response body: %+v", body)
	}
}

func TestStateBeforeInitialize(t *testing.T) {
	h := newTestHandler(&mockTrackerService{stateErr: tracker.ErrNotFound}, &mockEpochCache{})

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	rec := httptest.NewRecorder()

	h.State(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Got status %d, expected 404", rec.Code)
	}
}
