package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/logging"
	"github.com/wrtingacer/Lending-tracker/internal/stream"
)

type snapshotHub interface {
	Subscribe(userID uuid.UUID) *stream.Subscription
}

type WatchHandler struct {
	debts debtService
	hub   snapshotHub
	rates rateSource
}

func NewWatchHandler(debts debtService, hub snapshotHub, rates rateSource) *WatchHandler {
	return &WatchHandler{debts: debts, hub: hub, rates: rates}
}

// Watch serves the collection over SSE: one full snapshot immediately, then
// a fresh one after every mutation. Stale intermediate snapshots may be
// skipped for a slow reader; the latest always arrives.
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	initial, err := h.debts.Snapshot(r.Context(), userID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	sub := h.hub.Subscribe(userID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	currency := displayCurrency(r.URL.Query().Get("currency"))
	log := logging.FromContext(r.Context())

	if err := h.writeSnapshot(w, initial, currency); err != nil {
		log.Warn("watch stream write failed", "error", err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-sub.C():
			if !ok {
				return
			}
			if err := h.writeSnapshot(w, snapshot, currency); err != nil {
				log.Warn("watch stream write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (h *WatchHandler) writeSnapshot(w http.ResponseWriter, snapshot []domain.Debt, currency string) error {
	payload, err := json.Marshal(map[string]any{
		"entries":  toDebtDTOs(snapshot, h.rates.Rates(), currency, time.Now()),
		"count":    len(snapshot),
		"currency": currency,
	})
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte("event: snapshot\ndata: ")); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
