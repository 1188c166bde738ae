// Package stream broadcasts full-collection snapshots to subscribers.
// Every mutation publishes a fresh snapshot per user; consumers rerun their
// computation pass on each one. Delivery is latest-wins: a slow consumer
// skips intermediate snapshots rather than queueing them.
package stream

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[*Subscription]struct{})}
}

// Subscription delivers snapshots for one user. Close is idempotent and
// safe to call concurrently with Publish.
type Subscription struct {
	hub    *Hub
	userID uuid.UUID
	ch     chan []domain.Debt
	once   sync.Once
}

// C returns the snapshot channel. It is closed when the subscription is.
func (s *Subscription) C() <-chan []domain.Debt {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		if set, ok := s.hub.subs[s.userID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(s.hub.subs, s.userID)
			}
		}
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

func (h *Hub) Subscribe(userID uuid.UUID) *Subscription {
	sub := &Subscription{
		hub:    h,
		userID: userID,
		ch:     make(chan []domain.Debt, 1),
	}

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[userID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Publish delivers a snapshot to every subscriber of the user. If a
// subscriber has not consumed the previous snapshot it is replaced; the most
// recent snapshot always wins. Publish never blocks.
func (h *Hub) Publish(userID uuid.UUID, snapshot []domain.Debt) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[userID] {
		select {
		case sub.ch <- snapshot:
		default:
			// Drop the stale snapshot, then try once more. A concurrent
			// reader may have drained the channel in between; losing that
			// race just means the reader got the older snapshot first.
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- snapshot:
			default:
			}
		}
	}
}
