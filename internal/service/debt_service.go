package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/fx"
	"github.com/wrtingacer/Lending-tracker/internal/logging"
)

// DebtService orchestrates mutations on the debt collection. Every mutation
// goes through the repository and then publishes a fresh full snapshot to
// subscribers; the collection held by any consumer is never edited in place.
type DebtService struct {
	debts debtRepository
	rates rateSource
	hub   snapshotPublisher
	undo  *UndoBuffer
	clock func() time.Time
}

func NewDebtService(debts debtRepository, rates rateSource, hub snapshotPublisher) *DebtService {
	return &DebtService{
		debts: debts,
		rates: rates,
		hub:   hub,
		undo:  NewUndoBuffer(),
		clock: time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (s *DebtService) WithClock(clock func() time.Time) *DebtService {
	s.clock = clock
	return s
}

// CreateDebtInput carries user-entered values. Amount is in the display
// currency the user was looking at; it is converted to base on the way in.
type CreateDebtInput struct {
	Person           string
	Mode             domain.Mode
	Amount           float64
	Currency         string
	DueDate          string
	InterestRate     float64
	InterestType     domain.InterestType
	Notes            string
	InstallmentCount int
	Frequency        domain.Frequency
}

func (s *DebtService) CreateDebt(ctx context.Context, userID uuid.UUID, input CreateDebtInput) (*domain.Debt, error) {
	if input.Person == "" {
		return nil, fmt.Errorf("CreateDebt: %w", domain.ErrMissingPerson)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("CreateDebt: %w", domain.ErrInvalidAmount)
	}
	if input.DueDate == "" {
		return nil, fmt.Errorf("CreateDebt: %w", domain.ErrMissingDueDate)
	}
	if input.InterestRate < 0 {
		return nil, fmt.Errorf("CreateDebt: %w", domain.ErrInvalidRate)
	}
	if !input.Mode.IsValid() {
		return nil, fmt.Errorf("CreateDebt: %w", domain.ErrInvalidMode)
	}

	interestType := input.InterestType
	if !interestType.IsValid() {
		interestType = domain.InterestNone
	}
	currency := input.Currency
	if currency == "" {
		currency = fx.BaseCurrency
	}

	now := s.clock()
	debt := &domain.Debt{
		ID:           uuid.New(),
		UserID:       userID,
		Person:       input.Person,
		Mode:         input.Mode,
		Amount:       fx.ToBase(input.Amount, s.rates.Rates(), currency),
		Currency:     currency,
		DueDate:      input.DueDate,
		InterestRate: input.InterestRate,
		InterestType: interestType,
		Notes:        input.Notes,
		CreatedAt:    now.UnixMilli(),
	}

	if input.InstallmentCount > 0 {
		frequency := input.Frequency
		if !frequency.IsValid() {
			frequency = domain.FrequencyMonthly
		}
		debt.Installments = &domain.InstallmentPlan{
			Count:     input.InstallmentCount,
			Frequency: frequency,
		}
	}

	if err := s.debts.Create(ctx, debt); err != nil {
		return nil, fmt.Errorf("CreateDebt: %w", err)
	}

	logging.FromContext(ctx).Info("debt created",
		"debt_id", debt.ID,
		"user_id", userID,
		"mode", debt.Mode,
		"amount_base", debt.Amount,
	)

	s.publishSnapshot(ctx, userID)
	return debt, nil
}

// DeleteDebt removes an entry and parks a snapshot of it in the undo buffer.
// The snapshot replaces any previous pending undo for the user.
func (s *DebtService) DeleteDebt(ctx context.Context, userID, debtID uuid.UUID) error {
	debt, err := s.debts.GetByID(ctx, userID, debtID)
	if err != nil {
		return fmt.Errorf("DeleteDebt: %w", err)
	}

	if err := s.debts.Delete(ctx, userID, debtID); err != nil {
		return fmt.Errorf("DeleteDebt: %w", err)
	}

	s.undo.Put(userID, *debt, s.clock())

	logging.FromContext(ctx).Info("debt deleted",
		"debt_id", debtID,
		"user_id", userID,
		"person", debt.Person,
	)

	s.publishSnapshot(ctx, userID)
	return nil
}

// UndoDelete restores the most recently deleted entry if the undo window has
// not elapsed. The restored entry gets a fresh id; payments and installment
// flags come back with it.
func (s *DebtService) UndoDelete(ctx context.Context, userID uuid.UUID) (*domain.Debt, error) {
	debt, ok := s.undo.Take(userID, s.clock())
	if !ok {
		return nil, fmt.Errorf("UndoDelete: %w", domain.ErrNothingToUndo)
	}

	debt.ID = uuid.New()
	for i := range debt.Payments {
		debt.Payments[i].ID = uuid.New()
		debt.Payments[i].DebtID = debt.ID
	}

	if err := s.debts.Create(ctx, &debt); err != nil {
		return nil, fmt.Errorf("UndoDelete: %w", err)
	}

	logging.FromContext(ctx).Info("debt restored",
		"debt_id", debt.ID,
		"user_id", userID,
		"person", debt.Person,
	)

	s.publishSnapshot(ctx, userID)
	return &debt, nil
}

type AddPaymentInput struct {
	Amount float64
	Date   string
	Notes  string
}

func (s *DebtService) AddPayment(ctx context.Context, userID, debtID uuid.UUID, input AddPaymentInput) (*domain.Payment, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("AddPayment: %w", domain.ErrInvalidAmount)
	}
	if input.Date == "" {
		return nil, fmt.Errorf("AddPayment: %w", domain.ErrMissingDueDate)
	}

	if _, err := s.debts.GetByID(ctx, userID, debtID); err != nil {
		return nil, fmt.Errorf("AddPayment: %w", err)
	}

	payment := &domain.Payment{
		ID:        uuid.New(),
		DebtID:    debtID,
		Amount:    input.Amount,
		Date:      input.Date,
		Notes:     input.Notes,
		Timestamp: s.clock().UnixMilli(),
	}

	if err := s.debts.AddPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("AddPayment: %w", err)
	}

	s.publishSnapshot(ctx, userID)
	return payment, nil
}

func (s *DebtService) DeletePayment(ctx context.Context, userID, debtID, paymentID uuid.UUID) error {
	if _, err := s.debts.GetByID(ctx, userID, debtID); err != nil {
		return fmt.Errorf("DeletePayment: %w", err)
	}

	if err := s.debts.DeletePayment(ctx, debtID, paymentID); err != nil {
		return fmt.Errorf("DeletePayment: %w", err)
	}

	s.publishSnapshot(ctx, userID)
	return nil
}

// SetInstallmentPaid flips the paid annotation on one installment. This is
// bookkeeping on the schedule display only; the outstanding balance does not
// move (see the installment plan notes in the domain package).
func (s *DebtService) SetInstallmentPaid(ctx context.Context, userID, debtID uuid.UUID, index int, paid bool) error {
	debt, err := s.debts.GetByID(ctx, userID, debtID)
	if err != nil {
		return fmt.Errorf("SetInstallmentPaid: %w", err)
	}
	if debt.Installments == nil || index < 0 || index >= debt.Installments.Count {
		return fmt.Errorf("SetInstallmentPaid: %w", domain.ErrInvalidPlan)
	}

	if err := s.debts.SetInstallmentPaid(ctx, debtID, index, paid); err != nil {
		return fmt.Errorf("SetInstallmentPaid: %w", err)
	}

	s.publishSnapshot(ctx, userID)
	return nil
}

// Snapshot returns the user's full collection.
func (s *DebtService) Snapshot(ctx context.Context, userID uuid.UUID) ([]domain.Debt, error) {
	debts, err := s.debts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Snapshot: %w", err)
	}
	return debts, nil
}

func (s *DebtService) GetDebt(ctx context.Context, userID, debtID uuid.UUID) (*domain.Debt, error) {
	debt, err := s.debts.GetByID(ctx, userID, debtID)
	if err != nil {
		return nil, fmt.Errorf("GetDebt: %w", err)
	}
	return debt, nil
}

// publishSnapshot pushes the current collection to subscribers. A failed
// reload is logged and swallowed: the mutation itself already succeeded, and
// subscribers will catch up on the next one.
func (s *DebtService) publishSnapshot(ctx context.Context, userID uuid.UUID) {
	if s.hub == nil {
		return
	}
	snapshot, err := s.debts.ListByUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("snapshot reload failed", "error", err, "user_id", userID)
		return
	}
	s.hub.Publish(userID, snapshot)
}
