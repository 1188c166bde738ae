package valuation

import (
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Summary holds portfolio-level statistics for one tracking mode.
// All monetary fields are in base currency.
type Summary struct {
	TotalPrincipal        float64
	TotalInterest         float64
	TotalRepaid           float64
	StillOwed             float64 // clamped at zero for display
	ActiveCount           int
	AveragePrincipal      float64
	AverageSettlementDays int
	TopCounterparty       string
	DistinctCounterparties int
}

// Summarize computes portfolio statistics over the entries matching the
// active mode. Entries without a mode are legacy records and always count
// as owe.
//
// DistinctCounterparties deliberately spans the whole collection regardless
// of mode: it backs the name autocomplete, which covers both directions.
func Summarize(entries []domain.Debt, active domain.Mode, now time.Time) Summary {
	s := Summary{TopCounterparty: "-"}

	seen := make(map[string]struct{})
	for i := range entries {
		if _, ok := seen[entries[i].Person]; !ok {
			seen[entries[i].Person] = struct{}{}
			s.DistinctCounterparties++
		}
	}

	var (
		matched        int
		completed      int
		settlementDays int64
		perPerson      = make(map[string]float64)
		personOrder    []string
	)

	for i := range entries {
		d := &entries[i]
		if !d.Mode.Matches(active) {
			continue
		}
		matched++

		interest := Interest(d, now)
		paid := TotalPaid(d)
		remaining := d.Amount + interest - paid

		s.TotalPrincipal += d.Amount
		s.TotalInterest += interest
		s.TotalRepaid += paid

		if remaining > 0 {
			s.ActiveCount++
		} else {
			completed++
			settlementDays += settlementDaysFor(d, now)
		}

		if _, ok := perPerson[d.Person]; !ok {
			personOrder = append(personOrder, d.Person)
		}
		perPerson[d.Person] += remaining
	}

	if matched == 0 {
		s.DistinctCounterparties = 0
		return s
	}

	s.StillOwed = s.TotalPrincipal + s.TotalInterest - s.TotalRepaid
	if s.StillOwed < 0 {
		s.StillOwed = 0
	}
	s.AveragePrincipal = s.TotalPrincipal / float64(matched)
	if completed > 0 {
		s.AverageSettlementDays = int(settlementDays / int64(completed))
	}

	// Strict greater-than keeps the first-encountered person on ties.
	var top float64
	for _, person := range personOrder {
		if perPerson[person] > top {
			top = perPerson[person]
			s.TopCounterparty = person
		}
	}

	return s
}

// settlementDaysFor returns whole days between creation and the last payment.
// A settled debt with no payments (e.g. zero-amount edge data) falls back to
// now as its settlement instant.
func settlementDaysFor(d *domain.Debt, now time.Time) int64 {
	last := now.UnixMilli()
	if len(d.Payments) > 0 {
		last = d.Payments[0].Timestamp
		for i := 1; i < len(d.Payments); i++ {
			if d.Payments[i].Timestamp > last {
				last = d.Payments[i].Timestamp
			}
		}
	}
	days := (last - d.CreatedAt) / millisPerDay
	if days < 0 {
		return 0
	}
	return days
}

// Bar is one counterparty's slice of the outstanding-balance chart.
type Bar struct {
	Person    string
	Remaining float64
	Fraction  float64 // 0..1, scaled against the largest balance
}

// Breakdown produces per-counterparty outstanding balances for the active
// mode, scaled for chart rendering. When every balance is zero or negative
// the fractions are all zero rather than dividing by the max.
func Breakdown(entries []domain.Debt, active domain.Mode, now time.Time) []Bar {
	perPerson := make(map[string]float64)
	var order []string

	for i := range entries {
		d := &entries[i]
		if !d.Mode.Matches(active) {
			continue
		}
		if _, ok := perPerson[d.Person]; !ok {
			order = append(order, d.Person)
		}
		perPerson[d.Person] += Remaining(d, now)
	}

	var max float64
	for _, v := range perPerson {
		if v > max {
			max = v
		}
	}

	bars := make([]Bar, 0, len(order))
	for _, person := range order {
		b := Bar{Person: person, Remaining: perPerson[person]}
		if max > 0 && b.Remaining > 0 {
			b.Fraction = b.Remaining / max
		}
		bars = append(bars, b)
	}
	return bars
}
