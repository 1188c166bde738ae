package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

type debtRepository interface {
	Create(ctx context.Context, debt *domain.Debt) error
	GetByID(ctx context.Context, userID, debtID uuid.UUID) (*domain.Debt, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Debt, error)
	Delete(ctx context.Context, userID, debtID uuid.UUID) error
	AddPayment(ctx context.Context, payment *domain.Payment) error
	DeletePayment(ctx context.Context, debtID, paymentID uuid.UUID) error
	SetInstallmentPaid(ctx context.Context, debtID uuid.UUID, index int, paid bool) error
}

type rateSource interface {
	Rates() map[string]float64
}

type snapshotPublisher interface {
	Publish(userID uuid.UUID, snapshot []domain.Debt)
}
