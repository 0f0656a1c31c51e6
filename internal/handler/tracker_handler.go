package handler

import (
	"errors"
	"io"
	"net/http"

	"tracker/internal/data"
	"tracker/internal/service"
	"tracker/internal/tracker"
	"tracker/internal/view"

	"github.com/gorilla/sessions"
)

// Instruction payloads are a discriminator plus nothing; anything bigger is
// somebody probing.
const maxInstructionBytes = 64

// TrackerHandler exposes the tracker over HTTP: raw instruction submission,
// the decoded record, and a small status page.
type TrackerHandler struct {
	trackerService service.TrackerService
	cookieStore    *sessions.CookieStore
	renderer       *view.PageRenderer
	epochCache     data.EpochCache
}

func NewTrackerHandler(trackerService service.TrackerService, cookieStore *sessions.CookieStore, renderer *view.PageRenderer, epochCache data.EpochCache) *TrackerHandler {
	return &TrackerHandler{
		trackerService: trackerService,
		cookieStore:    cookieStore,
		renderer:       renderer,
		epochCache:     epochCache,
	}
}

// SubmitInstruction handles POST /instruction.
// The body is the binary wire format (a single leading discriminator byte);
// the capability token travels in the X-Capability header. On success the
// session remembers the epoch of the write so the status page can tell the
// caller whether it is looking at its own latest state.
func (h *TrackerHandler) SubmitInstruction(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxInstructionBytes))
	if err != nil {
		http.Error(w, "Error reading the instruction payload", http.StatusBadRequest)
		return
	}

	token := r.Header.Get("X-Capability")

	result, err := h.trackerService.Execute(payload, token)
	if err != nil {
		http.Error(w, err.Error(), transitionStatus(err))
		return
	}

	h.epochCache.UpdateEpochCache(result.Epoch)

	session, _ := h.cookieStore.Get(r, "tracker-session")
	session.Values["last-seen-epoch"] = result.Epoch
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, "Saving cookie", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// State handles GET /state, returning the decoded persisted record.
func (h *TrackerHandler) State(w http.ResponseWriter, r *http.Request) {
	state, epoch, err := h.trackerService.CurrentState()
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			http.Error(w, "The tracker has not been initialized yet", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Address string               `json:"address"`
		Epoch   uint64               `json:"epoch"`
		State   tracker.TrackerState `json:"state"`
	}{h.trackerService.Address(), epoch, *state})
}

type statusPage struct {
	Address       string
	Initialized   bool
	State         *tracker.TrackerState
	SeasonLabel   string
	Epoch         uint64
	LastSeenEpoch uint64
	Stale         bool
	PlayedSeasons []tracker.Season
}

// Status handles GET /, rendering the HTML status page.
func (h *TrackerHandler) Status(w http.ResponseWriter, r *http.Request) {
	page := statusPage{Address: h.trackerService.Address()}

	if session, err := h.cookieStore.Get(r, "tracker-session"); err == nil {
		if val, exists := session.Values["last-seen-epoch"]; exists {
			page.LastSeenEpoch = extractUint64(val)
		}
	}

	state, epoch, err := h.trackerService.CurrentState()
	if err == nil {
		page.Initialized = true
		page.State = state
		page.Epoch = epoch
		if !state.Completed() {
			page.SeasonLabel = state.SeasonLabel()
		}
		for i := 0; i < int(state.SeasonsPlayed); i++ {
			season, serr := tracker.SeasonAt(i)
			if serr != nil {
				break
			}
			page.PlayedSeasons = append(page.PlayedSeasons, season)
		}
	}
	page.Stale = page.LastSeenEpoch > h.epochCache.GetCachedEpoch()

	if err := h.renderer.RenderTemplate(w, "status.html", page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
