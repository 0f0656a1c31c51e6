package input

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"tracker/internal"
	"tracker/internal/address"
	"tracker/internal/data"
	"tracker/internal/handler"
	"tracker/internal/middleware"
	"tracker/internal/nlog"
	"tracker/internal/service"
	"tracker/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type IptConfig struct {
	ServerPort        uint16
	ReadTimeout       int64
	WriteTimeout      int64
	TemplateDirectory string
	SecretKey         string
}

type InputManager struct { // Manages the HTTP intake of tracker instructions
	running atomic.Bool
	paused  atomic.Bool

	logger nlog.Logger
	server *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	trackerService service.TrackerService
	keyring        *address.Keyring
	epochCache     data.EpochCache
}

func NewInputManager() *InputManager {
	return &InputManager{
		running:             atomic.Bool{},
		paused:              atomic.Bool{},
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) IsReady() bool {
	return i.logger != nil && i.trackerService != nil && i.keyring != nil && i.epochCache != nil
}

func (i *InputManager) IsRunning() bool {
	return i.running.Load()
}

func (i *InputManager) SetLogger(l nlog.Logger) {
	i.logger = l
}

func (i *InputManager) SetTrackerService(ts service.TrackerService) {
	i.trackerService = ts
}

func (i *InputManager) SetKeyring(k *address.Keyring) {
	i.keyring = k
}

func (i *InputManager) SetEpochCache(c data.EpochCache) {
	i.epochCache = c
}

func (i *InputManager) Logf(format string, a ...any) {
	i.logger.Logf(format, a...)
}

func (i *InputManager) SetPause(paused bool) {
	i.paused.Store(paused)
}

func (i *InputManager) IsPaused() bool {
	return i.paused.Load()
}

// PauseMiddleware gates instruction intake during maintenance windows.
// Paused submissions are turned away instead of queued, so the record never
// accumulates half-accepted work.
func (i *InputManager) PauseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if i.IsPaused() {
			http.Error(w, "The tracker is paused for maintenance", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandlePause toggles the maintenance pause. Reachable only through the
// capability-guarded admin route.
func (i *InputManager) HandlePause(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error occurred while parsing the form", http.StatusBadRequest)
		return
	}
	paused := r.FormValue("paused") == "true"
	i.SetPause(paused)
	i.Logf("Maintenance pause set to %v", paused)
	w.WriteHeader(http.StatusOK)
}

func (i *InputManager) Run(ctx context.Context, cfg *IptConfig) error {
	i.Logf("Input service started...")

	if !i.IsReady() {
		return fmt.Errorf("The Input manager is not ready... Missing components")
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	// Load templates and page renderer
	templates, err := internal.RetrieveWebTemplates(cfg.TemplateDirectory)
	if err != nil {
		return err
	}
	renderer := view.NewPageRenderer(templates)

	// Handlers
	trackerHandler := handler.NewTrackerHandler(i.trackerService, cookieStore, renderer, i.epochCache)

	trackerAddress := i.trackerService.Address()
	submit := middleware.CapabilityMiddleware(i.keyring, trackerAddress, trackerHandler.SubmitInstruction)
	pause := middleware.CapabilityMiddleware(i.keyring, trackerAddress, i.HandlePause)

	// Router
	r := mux.NewRouter()

	// Transition intake is both capability-guarded and pausable
	r.Handle("/instruction", i.PauseMiddleware(http.HandlerFunc(submit))).Methods("POST")

	// Read-only routes
	r.HandleFunc("/state", trackerHandler.State).Methods("GET")
	r.HandleFunc("/", trackerHandler.Status).Methods("GET")

	// Admin routes stay reachable while paused, or nobody could unpause
	r.HandleFunc("/admin/pause", pause).Methods("POST")

	i.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.ReadTimeout * int64(time.Second)),
		WriteTimeout:   time.Duration(cfg.WriteTimeout * int64(time.Second)),
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		select {
		case <-ctx.Done():
			i.Logf("Received stop signal. Shutting down...")
		case <-i.stopFromOutsideChan:
			i.Logf("Server was asked to stop. Shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := i.server.Shutdown(shutdownCtx); err != nil {
			i.Logf("Error during shutdown... %v\n", err)
		}
		close(i.doneFromInsideChan)
	}()

	i.running.Store(true)

	if err := i.server.ListenAndServe(); err != http.ErrServerClosed {
		i.Logf("FATAL: HTTP Server error{%v}\n", err)
		return err
	}

	return nil
}

func (i *InputManager) Stop() {
	close(i.stopFromOutsideChan)
	<-i.doneFromInsideChan
	i.running.Store(false)
}
