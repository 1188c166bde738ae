package valuation

import (
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

// Installment is one slot of a debt's installment plan.
type Installment struct {
	Number  int // 1-based
	Amount  float64
	DueDate string // ISO date
	Paid    bool
}

// Schedule expands a debt's installment plan into concrete installments:
// the total with interest divided evenly, due dates spaced by the plan
// frequency starting one gap after creation, paid flags read from the plan's
// sparse annotation map. Returns nil when the debt has no plan.
//
// The schedule is display-level: paid flags do not feed into Remaining.
func Schedule(d *domain.Debt, now time.Time) []Installment {
	plan := d.Installments
	if plan == nil || plan.Count < 1 {
		return nil
	}

	perInstallment := TotalWithInterest(d, now) / float64(plan.Count)
	start := time.UnixMilli(d.CreatedAt).UTC()
	gap := plan.Frequency.GapDays()

	installments := make([]Installment, 0, plan.Count)
	for i := 0; i < plan.Count; i++ {
		due := start.AddDate(0, 0, gap*(i+1))
		installments = append(installments, Installment{
			Number:  i + 1,
			Amount:  perInstallment,
			DueDate: due.Format(time.DateOnly),
			Paid:    plan.Paid[i],
		})
	}
	return installments
}
