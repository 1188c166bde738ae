package domain

import (
	"github.com/google/uuid"
)

// Payment is a repayment (mode owe) or collection (mode owed) against a
// debt, in base currency. Payments are immutable: they are created and
// deleted, never edited.
type Payment struct {
	ID        uuid.UUID
	DebtID    uuid.UUID
	Amount    float64
	Date      string // ISO date the money moved
	Notes     string
	Timestamp int64 // epoch milliseconds, creation instant
}
