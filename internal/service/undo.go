package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

// UndoWindow is how long a deleted entry stays recoverable.
const UndoWindow = 5 * time.Second

// PendingUndo is a snapshot of the most recently deleted debt. The caller
// checks ExpiresAt against the current time; expired snapshots are
// permanently unrecoverable.
type PendingUndo struct {
	Debt      domain.Debt
	ExpiresAt time.Time
}

// UndoBuffer holds at most one pending reversal per user. A new delete
// overwrites the previous one — only the latest delete is recoverable.
type UndoBuffer struct {
	mu      sync.Mutex
	pending map[uuid.UUID]PendingUndo
}

func NewUndoBuffer() *UndoBuffer {
	return &UndoBuffer{pending: make(map[uuid.UUID]PendingUndo)}
}

func (b *UndoBuffer) Put(userID uuid.UUID, debt domain.Debt, now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = PendingUndo{Debt: debt, ExpiresAt: now.Add(UndoWindow)}
}

// Take removes and returns the pending undo if it has not expired. The
// snapshot is consumed either way; a second Take finds nothing.
func (b *UndoBuffer) Take(userID uuid.UUID, now time.Time) (domain.Debt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[userID]
	if !ok {
		return domain.Debt{}, false
	}
	delete(b.pending, userID)

	if now.After(p.ExpiresAt) {
		return domain.Debt{}, false
	}
	return p.Debt, true
}
