package api

import (
	"net/http"

	"pointledger/internal/services/ledger"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(svc *ledger.Service) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/point/{userId}", h.GetPointHandler)
	r.Get("/point/{userId}/histories", h.GetHistoriesHandler)
	r.Patch("/point/{userId}/charge", h.ChargePointHandler)
	r.Patch("/point/{userId}/use", h.UsePointHandler)

	return r
}
