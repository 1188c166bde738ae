package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/fx"
	"github.com/wrtingacer/Lending-tracker/internal/valuation"
)

// debtDTO is one entry with its derived values attached. Monetary fields are
// converted into the requested display currency.
type debtDTO struct {
	ID           uuid.UUID        `json:"id"`
	Person       string           `json:"person"`
	Mode         domain.Mode      `json:"mode"`
	Amount       float64          `json:"amount"`
	Currency     string           `json:"currency"`
	DueDate      string           `json:"due_date"`
	InterestRate float64          `json:"interest_rate"`
	InterestType string           `json:"interest_type"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    int64            `json:"created_at"`
	Interest     float64          `json:"interest"`
	Total        float64          `json:"total"`
	Paid         float64          `json:"paid"`
	Remaining    float64          `json:"remaining"`
	Settled      bool             `json:"settled"`
	Payments     []paymentDTO     `json:"payments"`
	Schedule     []installmentDTO `json:"schedule,omitempty"`
}

type paymentDTO struct {
	ID     uuid.UUID `json:"id"`
	Amount float64   `json:"amount"`
	Date   string    `json:"date"`
	Notes  string    `json:"notes,omitempty"`
}

type installmentDTO struct {
	Number  int     `json:"number"`
	Amount  float64 `json:"amount"`
	DueDate string  `json:"due_date"`
	Paid    bool    `json:"paid"`
}

type summaryDTO struct {
	TotalPrincipal         float64 `json:"total_principal"`
	TotalInterest          float64 `json:"total_interest"`
	TotalRepaid            float64 `json:"total_repaid"`
	StillOwed              float64 `json:"still_owed"`
	ActiveCount            int     `json:"active_count"`
	AveragePrincipal       float64 `json:"average_principal"`
	AverageSettlementDays  int     `json:"average_settlement_days"`
	TopCounterparty        string  `json:"top_counterparty"`
	DistinctCounterparties int     `json:"distinct_counterparties"`
}

type barDTO struct {
	Person    string  `json:"person"`
	Remaining float64 `json:"remaining"`
	Fraction  float64 `json:"fraction"`
}

func toDebtDTO(d *domain.Debt, rates map[string]float64, currency string, now time.Time) debtDTO {
	display := func(v float64) float64 { return fx.Display(v, rates, currency) }

	dto := debtDTO{
		ID:           d.ID,
		Person:       d.Person,
		Mode:         d.Mode,
		Amount:       display(d.Amount),
		Currency:     currency,
		DueDate:      d.DueDate,
		InterestRate: d.InterestRate,
		InterestType: string(d.InterestType),
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
		Interest:     display(valuation.Interest(d, now)),
		Total:        display(valuation.TotalWithInterest(d, now)),
		Paid:         display(valuation.TotalPaid(d)),
		Remaining:    display(valuation.Remaining(d, now)),
		Settled:      valuation.Settled(d, now),
	}

	dto.Payments = make([]paymentDTO, 0, len(d.Payments))
	for i := range d.Payments {
		p := &d.Payments[i]
		dto.Payments = append(dto.Payments, paymentDTO{
			ID:     p.ID,
			Amount: display(p.Amount),
			Date:   p.Date,
			Notes:  p.Notes,
		})
	}

	for _, inst := range valuation.Schedule(d, now) {
		dto.Schedule = append(dto.Schedule, installmentDTO{
			Number:  inst.Number,
			Amount:  display(inst.Amount),
			DueDate: inst.DueDate,
			Paid:    inst.Paid,
		})
	}

	return dto
}

func toDebtDTOs(debts []domain.Debt, rates map[string]float64, currency string, now time.Time) []debtDTO {
	out := make([]debtDTO, 0, len(debts))
	for i := range debts {
		out = append(out, toDebtDTO(&debts[i], rates, currency, now))
	}
	return out
}

func toSummaryDTO(s valuation.Summary, rates map[string]float64, currency string) summaryDTO {
	display := func(v float64) float64 { return fx.Display(v, rates, currency) }
	return summaryDTO{
		TotalPrincipal:         display(s.TotalPrincipal),
		TotalInterest:          display(s.TotalInterest),
		TotalRepaid:            display(s.TotalRepaid),
		StillOwed:              display(s.StillOwed),
		ActiveCount:            s.ActiveCount,
		AveragePrincipal:       display(s.AveragePrincipal),
		AverageSettlementDays:  s.AverageSettlementDays,
		TopCounterparty:        s.TopCounterparty,
		DistinctCounterparties: s.DistinctCounterparties,
	}
}

func toBarDTOs(bars []valuation.Bar, rates map[string]float64, currency string) []barDTO {
	out := make([]barDTO, 0, len(bars))
	for _, b := range bars {
		out = append(out, barDTO{
			Person:    b.Person,
			Remaining: fx.Display(b.Remaining, rates, currency),
			Fraction:  b.Fraction,
		})
	}
	return out
}

// displayCurrency normalizes the ?currency= query parameter.
func displayCurrency(raw string) string {
	if raw == "" {
		return fx.BaseCurrency
	}
	return raw
}
