package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/fx"
	"github.com/wrtingacer/Lending-tracker/internal/valuation"
)

const millisPerDay = 24 * 60 * 60 * 1000

// daysUntilDue floors the fractional day difference toward negative
// infinity, so a due date earlier today already counts as overdue.
func daysUntilDue(dueDate string, now time.Time) int {
	due, err := time.Parse(time.DateOnly, dueDate)
	if err != nil {
		return 0
	}
	diff := due.UnixMilli() - now.UnixMilli()
	days := diff / millisPerDay
	if diff < 0 && diff%millisPerDay != 0 {
		days--
	}
	return int(days)
}

// ReminderMessage builds a shareable payment or collection reminder for one
// entry. Amounts are converted into the requested display currency.
func ReminderMessage(debt *domain.Debt, rates map[string]float64, currency string, now time.Time) string {
	remaining := valuation.Remaining(debt, now)
	interest := valuation.Interest(debt, now)
	paid := valuation.TotalPaid(debt)
	days := daysUntilDue(debt.DueDate, now)

	display := func(v float64) string {
		return fx.Format(v, rates, currency)
	}

	var b strings.Builder
	if debt.Mode.Matches(domain.ModeOwe) {
		b.WriteString("Payment Reminder\n\n")
	} else {
		b.WriteString("Collection Reminder\n\n")
	}
	fmt.Fprintf(&b, "Person: %s\n", debt.Person)
	fmt.Fprintf(&b, "Original Amount: %s %s\n", currency, display(debt.Amount))
	if interest > 0 {
		fmt.Fprintf(&b, "Interest: %s %s\n", currency, display(interest))
	}
	fmt.Fprintf(&b, "Paid So Far: %s %s\n", currency, display(paid))
	fmt.Fprintf(&b, "Remaining: %s %s\n", currency, display(remaining))
	fmt.Fprintf(&b, "Due Date: %s\n", debt.DueDate)

	switch {
	case days < 0:
		fmt.Fprintf(&b, "\nOVERDUE by %d day(s)!\n", -days)
	case days == 0:
		b.WriteString("\nDue TODAY!\n")
	default:
		fmt.Fprintf(&b, "\nDue in %d day(s).\n", days)
	}

	if debt.Notes != "" {
		fmt.Fprintf(&b, "\nNote: %s\n", debt.Notes)
	}
	return b.String()
}

// DueAlert is a short notification line for an entry that needs attention.
type DueAlert struct {
	DebtID   string `json:"debtId"`
	Person   string `json:"person"`
	Message  string `json:"message"`
	DaysLeft int    `json:"daysLeft"`
}

// DueAlerts scans the collection for unsettled entries due within the given
// horizon, due today, or already overdue. Settled entries never alert.
func DueAlerts(debts []domain.Debt, rates map[string]float64, currency string, horizonDays int, now time.Time) []DueAlert {
	if horizonDays < 1 {
		horizonDays = 1
	}

	var alerts []DueAlert
	for i := range debts {
		d := &debts[i]
		remaining := valuation.Remaining(d, now)
		if remaining <= 0 {
			continue
		}

		days := daysUntilDue(d.DueDate, now)
		amount := fx.Format(remaining, rates, currency)

		var msg string
		switch {
		case days == 0:
			msg = fmt.Sprintf("Due TODAY: %s - %s %s", d.Person, currency, amount)
		case days > 0 && days <= horizonDays:
			msg = fmt.Sprintf("Due in %dd: %s - %s %s", days, d.Person, currency, amount)
		case days < 0:
			msg = fmt.Sprintf("OVERDUE: %s - %s %s", d.Person, currency, amount)
		default:
			continue
		}

		alerts = append(alerts, DueAlert{
			DebtID:   d.ID.String(),
			Person:   d.Person,
			Message:  msg,
			DaysLeft: days,
		})
	}
	return alerts
}
