package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/fx"
	"github.com/wrtingacer/Lending-tracker/internal/logging"
	"github.com/wrtingacer/Lending-tracker/internal/valuation"
)

var exportHeader = []string{
	"Person", "Mode", "Amount", "Interest", "Total", "Repaid", "Remaining",
	"Due Date", "Currency", "Notes",
}

// Export streams the whole collection as CSV, amounts converted into the
// requested display currency and rounded the same way they are shown.
func (h *DebtHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	snapshot, err := h.debts.Snapshot(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to load snapshot", "error", err)
		RespondDomainError(w, err)
		return
	}

	now := time.Now()
	rates := h.rates.Rates()
	currency := displayCurrency(r.URL.Query().Get("currency"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="debts-%s.csv"`, now.UTC().Format(time.DateOnly)))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		logging.FromContext(r.Context()).Error("failed to write csv", "error", err)
		return
	}

	for i := range snapshot {
		d := &snapshot[i]

		mode := d.Mode
		if mode == "" {
			mode = domain.ModeOwe
		}

		record := []string{
			d.Person,
			string(mode),
			fx.Format(d.Amount, rates, currency),
			fx.Format(valuation.Interest(d, now), rates, currency),
			fx.Format(valuation.TotalWithInterest(d, now), rates, currency),
			fx.Format(valuation.TotalPaid(d), rates, currency),
			fx.Format(valuation.Remaining(d, now), rates, currency),
			d.DueDate,
			currency,
			d.Notes,
		}
		if err := cw.Write(record); err != nil {
			logging.FromContext(r.Context()).Error("failed to write csv", "error", err)
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Error("failed to flush csv", "error", err)
	}
}
