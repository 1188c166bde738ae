package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
	"github.com/wrtingacer/Lending-tracker/internal/repository"
	"github.com/wrtingacer/Lending-tracker/internal/testutil"
)

func fullDebt(userID uuid.UUID) *domain.Debt {
	debtID := uuid.New()
	createdAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC).UnixMilli()

	return &domain.Debt{
		ID:           debtID,
		UserID:       userID,
		Person:       "Alice",
		Mode:         domain.ModeOwed,
		Amount:       1000,
		Currency:     "KES",
		DueDate:      "2026-12-01",
		InterestRate: 12,
		InterestType: domain.InterestSimple,
		Notes:        "expansion loan",
		CreatedAt:    createdAt,
		Payments: []domain.Payment{
			{
				ID:        uuid.New(),
				DebtID:    debtID,
				Amount:    200,
				Date:      "2026-02-01",
				Notes:     "first",
				Timestamp: createdAt + 100,
			},
			{
				ID:        uuid.New(),
				DebtID:    debtID,
				Amount:    300,
				Date:      "2026-03-01",
				Timestamp: createdAt + 200,
			},
		},
		Installments: &domain.InstallmentPlan{
			Count:     4,
			Frequency: domain.FrequencyBiweekly,
			Paid:      map[int]bool{0: true, 2: true},
		},
	}
}

func TestDebtRepositoryRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	want := fullDebt(user.ID)

	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.GetByID(ctx, user.ID, want.ID)
	require.NoError(t, err)

	assert.Equal(t, want.Person, got.Person)
	assert.Equal(t, want.Mode, got.Mode)
	assert.Equal(t, want.Amount, got.Amount)
	assert.Equal(t, want.Currency, got.Currency)
	assert.Equal(t, want.DueDate, got.DueDate)
	assert.Equal(t, want.InterestRate, got.InterestRate)
	assert.Equal(t, want.InterestType, got.InterestType)
	assert.Equal(t, want.Notes, got.Notes)
	assert.Equal(t, want.CreatedAt, got.CreatedAt)

	require.NotNil(t, got.Installments)
	assert.Equal(t, 4, got.Installments.Count)
	assert.Equal(t, domain.FrequencyBiweekly, got.Installments.Frequency)
	assert.Equal(t, map[int]bool{0: true, 2: true}, got.Installments.Paid)

	// Payments come back most recent date first.
	require.Len(t, got.Payments, 2)
	assert.Equal(t, "2026-03-01", got.Payments[0].Date)
	assert.Equal(t, "2026-02-01", got.Payments[1].Date)
}

func TestDebtRepositoryListOrderAndIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	alice := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	bob := testutil.SeedTestUser(t, db, "bob@test.com", "Bob")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	testutil.SeedTestDebt(t, db, alice.ID, "second", 20, base+1000)
	testutil.SeedTestDebt(t, db, alice.ID, "first", 10, base)
	testutil.SeedTestDebt(t, db, bob.ID, "other", 99, base)

	debts, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, debts, 2)
	assert.Equal(t, "first", debts[0].Person)
	assert.Equal(t, "second", debts[1].Person)
}

func TestDebtRepositoryDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	stranger := testutil.SeedTestUser(t, db, "bob@test.com", "Bob")
	debt := fullDebt(user.ID)
	require.NoError(t, repo.Create(ctx, debt))

	// Another user cannot delete it.
	err := repo.Delete(ctx, stranger.ID, debt.ID)
	assert.ErrorIs(t, err, domain.ErrDebtNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID, debt.ID))
	assert.Equal(t, 0, testutil.CountPayments(t, db, debt.ID))

	_, err = repo.GetByID(ctx, user.ID, debt.ID)
	assert.ErrorIs(t, err, domain.ErrDebtNotFound)

	err = repo.Delete(ctx, user.ID, debt.ID)
	assert.ErrorIs(t, err, domain.ErrDebtNotFound)
}

func TestDebtRepositoryPayments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	debt := testutil.SeedTestDebt(t, db, user.ID, "Alice", 100,
		time.Now().UTC().UnixMilli())

	payment := &domain.Payment{
		ID:        uuid.New(),
		DebtID:    debt.ID,
		Amount:    25,
		Date:      "2026-05-01",
		Timestamp: time.Now().UTC().UnixMilli(),
	}
	require.NoError(t, repo.AddPayment(ctx, payment))
	assert.Equal(t, 1, testutil.CountPayments(t, db, debt.ID))

	require.NoError(t, repo.DeletePayment(ctx, debt.ID, payment.ID))
	assert.Equal(t, 0, testutil.CountPayments(t, db, debt.ID))

	err := repo.DeletePayment(ctx, debt.ID, payment.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestDebtRepositorySetInstallmentPaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "alice@test.com", "Alice")
	debt := fullDebt(user.ID)
	debt.Installments.Paid = nil
	require.NoError(t, repo.Create(ctx, debt))

	// Setting twice is a no-op, not an error.
	require.NoError(t, repo.SetInstallmentPaid(ctx, debt.ID, 1, true))
	require.NoError(t, repo.SetInstallmentPaid(ctx, debt.ID, 1, true))

	got, err := repo.GetByID(ctx, user.ID, debt.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true}, got.Installments.Paid)

	require.NoError(t, repo.SetInstallmentPaid(ctx, debt.ID, 1, false))
	got, err = repo.GetByID(ctx, user.ID, debt.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Installments.Paid)
}

func TestUserRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "alice@test.com",
		Name:         "Alice",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "alice@test.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	dup := &domain.User{
		ID:           uuid.New(),
		Email:        "alice@test.com",
		Name:         "Other Alice",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
