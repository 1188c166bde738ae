package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestDebt(t *testing.T, db *sql.DB, userID uuid.UUID, person string, amount float64, createdAt int64) *domain.Debt {
	t.Helper()

	d := &domain.Debt{
		ID:        uuid.New(),
		UserID:    userID,
		Person:    person,
		Mode:      domain.ModeOwe,
		Amount:    amount,
		Currency:  "USD",
		DueDate:   "2030-01-01",
		CreatedAt: createdAt,
	}

	_, err := db.Exec(
		`INSERT INTO debts (id, user_id, person, mode, amount, currency, due_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.UserID, d.Person, d.Mode, d.Amount, d.Currency, d.DueDate, d.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test debt for %s: %v", person, err)
	}
	return d
}

func CountPayments(t *testing.T, db *sql.DB, debtID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM payments WHERE debt_id = $1`, debtID).Scan(&count)
	if err != nil {
		t.Fatalf("count payments for debt %s: %v", debtID, err)
	}
	return count
}
