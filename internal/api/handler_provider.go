package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"pointledger/internal/repos/points"
	"pointledger/internal/services/ledger"

	"github.com/go-chi/chi/v5"
)

// HandlerProvider wraps the ledger service and exposes HTTP handlers.
type HandlerProvider struct {
	svc *ledger.Service
}

// NewHandler returns a new handler provider.
func NewHandler(svc *ledger.Service) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeLedgerError maps the service's error kinds to HTTP statuses.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidUserID):
		writeError(w, http.StatusBadRequest, "invalid user id")
	case errors.Is(err, ledger.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid amount")
	case errors.Is(err, ledger.ErrBalanceLimitExceeded):
		writeError(w, http.StatusConflict, "balance limit exceeded")
	case errors.Is(err, ledger.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "insufficient balance")
	default:
		slog.Error("ledger operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseUserIDFromPath reads `{userId}` from chi routes like:
//
//	GET   /point/{userId}
//	PATCH /point/{userId}/charge
//
// A malformed id becomes 0, which the service rejects as invalid — the
// identifier check must stay the first error to fire, so the adapter does not
// pre-empt it with its own 400.
func parseUserIDFromPath(r *http.Request) int64 {
	idStr := chi.URLParam(r, "userId")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0
	}

	return id
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

// decodeAmount parses the request body for charge/use. Body size is capped and
// unknown fields are rejected.
func decodeAmount(w http.ResponseWriter, r *http.Request) (int64, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	var req amountRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("empty body")
		}

		return 0, fmt.Errorf("invalid JSON: %w", err)
	}

	return req.Amount, nil
}

type pointResponse struct {
	UserID    int64 `json:"userId"`
	Balance   int64 `json:"balance"`
	UpdatedAt int64 `json:"updatedAt"`
}

type historyResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"userId"`
	Amount     int64  `json:"amount"`
	Kind       string `json:"kind"`
	OccurredAt int64  `json:"occurredAt"`
}

func toPointResponse(up points.UserPoint) pointResponse {
	return pointResponse{
		UserID:    up.UserID,
		Balance:   up.Balance,
		UpdatedAt: up.UpdatedAt.UnixMilli(),
	}
}

func toHistoryResponse(entries []points.PointHistory) []historyResponse {
	out := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Amount:     e.Amount,
			Kind:       string(e.Kind),
			OccurredAt: e.OccurredAt.UnixMilli(),
		})
	}

	return out
}

// --- Handlers ---

// GetPointHandler handles GET /point/{userId}
func (h *HandlerProvider) GetPointHandler(w http.ResponseWriter, r *http.Request) {
	userID := parseUserIDFromPath(r)

	up, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPointResponse(up))
}

// GetHistoriesHandler handles GET /point/{userId}/histories
func (h *HandlerProvider) GetHistoriesHandler(w http.ResponseWriter, r *http.Request) {
	userID := parseUserIDFromPath(r)

	entries, err := h.svc.GetHistory(r.Context(), userID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toHistoryResponse(entries))
}

// ChargePointHandler handles PATCH /point/{userId}/charge
func (h *HandlerProvider) ChargePointHandler(w http.ResponseWriter, r *http.Request) {
	userID := parseUserIDFromPath(r)

	amount, err := decodeAmount(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	up, err := h.svc.Charge(r.Context(), userID, amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPointResponse(up))
}

// UsePointHandler handles PATCH /point/{userId}/use
func (h *HandlerProvider) UsePointHandler(w http.ResponseWriter, r *http.Request) {
	userID := parseUserIDFromPath(r)

	amount, err := decodeAmount(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	up, err := h.svc.Use(r.Context(), userID, amount)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPointResponse(up))
}
