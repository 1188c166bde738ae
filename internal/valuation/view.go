package valuation

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

type StatusFilter string

const (
	StatusAll     StatusFilter = "all"
	StatusUnpaid  StatusFilter = "unpaid"
	StatusPaid    StatusFilter = "paid"
	StatusOverdue StatusFilter = "overdue"
)

type SortKey string

const (
	SortDateDesc   SortKey = "date-desc"
	SortDateAsc    SortKey = "date-asc"
	SortAmountDesc SortKey = "amount-desc"
	SortAmountAsc  SortKey = "amount-asc"
	SortNameAsc    SortKey = "name-asc"
	SortDueAsc     SortKey = "due-asc"
)

// ViewState is the full set of inputs that shape a list view. It is passed
// explicitly on every recomputation; the pipeline holds no state of its own.
type ViewState struct {
	Mode   domain.Mode
	Query  string // case-insensitive substring match on person
	Status StatusFilter
	Sort   SortKey
}

// View is the result of one pass over a collection snapshot: the visible
// entries in display order plus the portfolio summary for the active mode.
type View struct {
	Visible []domain.Debt
	Count   int
	Summary Summary
}

var nameCollator = collate.New(language.Und, collate.IgnoreCase)

// ComputeView filters and sorts a collection snapshot. today is a date-only
// ISO string used for overdue classification; now drives valuation. The input
// slice is never modified.
func ComputeView(entries []domain.Debt, state ViewState, today string, now time.Time) View {
	query := strings.ToLower(state.Query)

	visible := make([]domain.Debt, 0, len(entries))
	for i := range entries {
		d := &entries[i]
		if !d.Mode.Matches(state.Mode) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Person), query) {
			continue
		}
		if !matchesStatus(d, state.Status, today, now) {
			continue
		}
		visible = append(visible, *d)
	}

	sortEntries(visible, state.Sort)

	return View{
		Visible: visible,
		Count:   len(visible),
		Summary: Summarize(entries, state.Mode, now),
	}
}

func matchesStatus(d *domain.Debt, status StatusFilter, today string, now time.Time) bool {
	switch status {
	case StatusUnpaid:
		return Remaining(d, now) > 0
	case StatusPaid:
		return Remaining(d, now) <= 0
	case StatusOverdue:
		return Remaining(d, now) > 0 && d.DueDate < today
	default:
		return true
	}
}

// sortEntries orders the slice stably by the given key. Unknown keys leave
// the input order untouched.
func sortEntries(entries []domain.Debt, key SortKey) {
	var less func(a, b *domain.Debt) bool

	switch key {
	case SortDateDesc:
		less = func(a, b *domain.Debt) bool { return a.CreatedAt > b.CreatedAt }
	case SortDateAsc:
		less = func(a, b *domain.Debt) bool { return a.CreatedAt < b.CreatedAt }
	case SortAmountDesc:
		less = func(a, b *domain.Debt) bool { return a.Amount > b.Amount }
	case SortAmountAsc:
		less = func(a, b *domain.Debt) bool { return a.Amount < b.Amount }
	case SortNameAsc:
		less = func(a, b *domain.Debt) bool {
			return nameCollator.CompareString(a.Person, b.Person) < 0
		}
	case SortDueAsc:
		less = func(a, b *domain.Debt) bool { return a.DueDate < b.DueDate }
	default:
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(&entries[i], &entries[j])
	})
}
