package middleware

import (
	"net/http"

	"tracker/internal/address"
)

// CapabilityMiddleware rejects write requests whose X-Capability header does
// not verify against the tracker address before they reach the dispatcher.
// The processor stays authoritative (PlaySeason re-checks the token against
// the record's stored owner credential); this only keeps junk off the service.
func CapabilityMiddleware(keyring *address.Keyring, trackerAddress string, next func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Capability")
		if token == "" {
			http.Error(w, "Missing capability token", http.StatusUnauthorized)
			return
		}
		if !keyring.VerifyDerived(trackerAddress, token) {
			http.Error(w, "Invalid capability token", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
