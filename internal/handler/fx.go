package handler

import (
	"net/http"
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/fx"
)

type rateSource interface {
	Rates() map[string]float64
}

type rateService interface {
	rateSource
	FetchedAt() time.Time
}

type FXHandler struct {
	rates rateService
}

func NewFXHandler(rates rateService) *FXHandler {
	return &FXHandler{rates: rates}
}

type ratesResponse struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt string             `json:"fetched_at,omitempty"`
}

// GetRates returns the current rate table. FetchedAt is empty while the
// service is still running on its built-in fallback table.
func (h *FXHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	resp := ratesResponse{
		Base:  fx.BaseCurrency,
		Rates: h.rates.Rates(),
	}
	if t := h.rates.FetchedAt(); !t.IsZero() {
		resp.FetchedAt = t.UTC().Format(time.RFC3339)
	}
	RespondSuccess(w, http.StatusOK, resp)
}
