package domain

import (
	"github.com/google/uuid"
)

// Mode says which direction a debt runs: the user is the debtor (owe) or
// the creditor (owed). Records created before the direction toggle existed
// have no mode and are treated as owe everywhere.
type Mode string

const (
	ModeOwe  Mode = "owe"
	ModeOwed Mode = "owed"
)

func (m Mode) IsValid() bool {
	return m == ModeOwe || m == ModeOwed
}

// Matches reports whether a debt with this mode belongs to the active mode.
// The empty mode is legacy data and matches owe.
func (m Mode) Matches(active Mode) bool {
	if m == "" {
		return active == ModeOwe
	}
	return m == active
}

type InterestType string

const (
	InterestNone     InterestType = "none"
	InterestSimple   InterestType = "simple"
	InterestCompound InterestType = "compound"
)

func (t InterestType) IsValid() bool {
	return t == InterestNone || t == InterestSimple || t == InterestCompound
}

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly || f == FrequencyMonthly
}

// GapDays is the number of days between installments. Unknown frequencies
// fall back to monthly.
func (f Frequency) GapDays() int {
	switch f {
	case FrequencyWeekly:
		return 7
	case FrequencyBiweekly:
		return 14
	default:
		return 30
	}
}

// InstallmentPlan describes how a debt is intended to be paid off. It is a
// schedule descriptor, not a ledger: money movement is recorded via payments,
// and Paid is a manually toggled annotation keyed by zero-based installment
// index. The two are deliberately not synchronized.
type InstallmentPlan struct {
	Count     int
	Frequency Frequency
	Paid      map[int]bool
}

// Debt is a single tracked entry: money the user owes someone or money
// someone owes the user. Amount is always stored in the base currency;
// Currency only records what the user was looking at when they created it.
type Debt struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Person       string
	Mode         Mode
	Amount       float64
	Currency     string
	DueDate      string // ISO date, compared lexicographically
	InterestRate float64
	InterestType InterestType
	Notes        string
	CreatedAt    int64 // epoch milliseconds; interest accrual and schedule anchor
	Payments     []Payment
	Installments *InstallmentPlan
}
