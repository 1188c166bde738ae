package handler

import (
	"net/http"
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/logging"
	"github.com/wrtingacer/Lending-tracker/internal/valuation"
)

type listResponse struct {
	Entries   []debtDTO  `json:"entries"`
	Count     int        `json:"count"`
	Summary   summaryDTO `json:"summary"`
	Breakdown []barDTO   `json:"breakdown"`
	Currency  string     `json:"currency"`
}

// List renders the filtered, sorted view plus portfolio statistics and chart
// data in one response. Query parameters: mode, q, status, sort, currency.
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	q := r.URL.Query()

	mode := domain.Mode(q.Get("mode"))
	if mode == "" {
		mode = domain.ModeOwe
	}
	if !mode.IsValid() {
		RespondValidationError(w, []FieldError{{Field: "mode", Message: "must be owe or owed"}})
		return
	}

	status := valuation.StatusFilter(q.Get("status"))
	if status == "" {
		status = valuation.StatusAll
	}
	sortKey := valuation.SortKey(q.Get("sort"))
	if sortKey == "" {
		sortKey = valuation.SortDateDesc
	}

	snapshot, err := h.debts.Snapshot(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load snapshot", "error", err)
		RespondDomainError(w, err)
		return
	}

	now := time.Now()
	view := valuation.ComputeView(snapshot, valuation.ViewState{
		Mode:   mode,
		Query:  q.Get("q"),
		Status: status,
		Sort:   sortKey,
	}, now.UTC().Format(time.DateOnly), now)

	rates := h.rates.Rates()
	currency := displayCurrency(q.Get("currency"))

	RespondSuccess(w, http.StatusOK, listResponse{
		Entries:   toDebtDTOs(view.Visible, rates, currency, now),
		Count:     view.Count,
		Summary:   toSummaryDTO(view.Summary, rates, currency),
		Breakdown: toBarDTOs(valuation.Breakdown(snapshot, mode, now), rates, currency),
		Currency:  currency,
	})
}

func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	debtID, err := parsePathUUID(r, "debtID")
	if err != nil {
		RespondAppError(w, ErrDebtNotFound, nil)
		return
	}

	debt, svcErr := h.debts.GetDebt(r.Context(), userID, debtID)
	if svcErr != nil {
		RespondDomainError(w, svcErr)
		return
	}

	currency := displayCurrency(r.URL.Query().Get("currency"))
	RespondSuccess(w, http.StatusOK, toDebtDTO(debt, h.rates.Rates(), currency, time.Now()))
}
