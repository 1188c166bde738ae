// Package valuation derives financial quantities from debt entries: accrued
// interest, totals, remaining balances, installment schedules, portfolio
// summaries and filtered/sorted list views. Everything here is pure — callers
// pass the clock in, nothing reads wall time or mutates its input.
package valuation

import (
	"math"
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

// millisPerYear uses a fixed 365-day year. Accrual is elapsed-time based;
// leap years are ignored.
const millisPerYear = 365 * 24 * 60 * 60 * 1000

// Interest returns the interest accrued on a debt between its creation and
// now. Zero when no rate is set, the type is none, or the type is not
// recognized. Compound interest compounds monthly, extrapolated continuously
// over fractional years.
func Interest(d *domain.Debt, now time.Time) float64 {
	if d.InterestRate <= 0 || d.InterestType == domain.InterestNone {
		return 0
	}

	rate := d.InterestRate / 100
	years := float64(now.UnixMilli()-d.CreatedAt) / millisPerYear
	if years < 0 {
		years = 0
	}

	switch d.InterestType {
	case domain.InterestSimple:
		return d.Amount * rate * years
	case domain.InterestCompound:
		return d.Amount * (math.Pow(1+rate/12, 12*years) - 1)
	default:
		return 0
	}
}

// TotalWithInterest is the principal plus accrued interest.
func TotalWithInterest(d *domain.Debt, now time.Time) float64 {
	return d.Amount + Interest(d, now)
}

// TotalPaid sums the payment ledger. Zero when there are no payments.
func TotalPaid(d *domain.Debt) float64 {
	var sum float64
	for i := range d.Payments {
		sum += d.Payments[i].Amount
	}
	return sum
}

// Remaining is the outstanding balance. It goes negative on overpayment;
// callers clamp at the presentation boundary, never here. Zero or negative
// means settled.
func Remaining(d *domain.Debt, now time.Time) float64 {
	return TotalWithInterest(d, now) - TotalPaid(d)
}

// Settled reports whether the debt is fully paid off (or overpaid).
func Settled(d *domain.Debt, now time.Time) bool {
	return Remaining(d, now) <= 0
}
