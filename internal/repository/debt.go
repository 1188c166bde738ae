package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wrtingacer/Lending-tracker/internal/domain"
)

const debtColumns = `id, user_id, person, mode, amount, currency, due_date,
	interest_rate, interest_type, notes, created_at,
	installment_count, installment_frequency`

const paymentColumns = `id, debt_id, amount, date, notes, timestamp_ms`

type DebtRepository struct {
	db *sql.DB
}

func NewDebtRepository(db *sql.DB) *DebtRepository {
	return &DebtRepository{db: db}
}

// Create persists a debt together with its payments and installment paid
// flags. Payments are normally empty on first creation; an undo restore
// carries the full sub-records back in.
func (r *DebtRepository) Create(ctx context.Context, debt *domain.Debt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Create: begin: %w", err)
	}
	defer tx.Rollback()

	var count sql.NullInt64
	var frequency sql.NullString
	if debt.Installments != nil {
		count = sql.NullInt64{Int64: int64(debt.Installments.Count), Valid: true}
		frequency = sql.NullString{String: string(debt.Installments.Frequency), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO debts (
			id, user_id, person, mode, amount, currency, due_date,
			interest_rate, interest_type, notes, created_at,
			installment_count, installment_frequency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		debt.ID, debt.UserID, debt.Person, debt.Mode, debt.Amount,
		debt.Currency, debt.DueDate, debt.InterestRate, debt.InterestType,
		debt.Notes, debt.CreatedAt, count, frequency,
	)
	if err != nil {
		return fmt.Errorf("Create: insert debt: %w", err)
	}

	for i := range debt.Payments {
		p := &debt.Payments[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payments (id, debt_id, amount, date, notes, timestamp_ms)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, debt.ID, p.Amount, p.Date, p.Notes, p.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("Create: insert payment: %w", err)
		}
	}

	if debt.Installments != nil {
		for idx, paid := range debt.Installments.Paid {
			if !paid {
				continue
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO installment_flags (debt_id, idx) VALUES ($1, $2)`,
				debt.ID, idx,
			)
			if err != nil {
				return fmt.Errorf("Create: insert installment flag: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Create: commit: %w", err)
	}
	return nil
}

func (r *DebtRepository) GetByID(ctx context.Context, userID, debtID uuid.UUID) (*domain.Debt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = $1 AND user_id = $2`,
		debtID, userID,
	)
	d, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrDebtNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	if err := r.attachSubRecords(ctx, map[uuid.UUID]*domain.Debt{d.ID: d}); err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return d, nil
}

// ListByUser returns the user's full collection, oldest first so that
// first-encountered ordering downstream matches insertion order.
func (r *DebtRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*domain.Debt)
	var debts []*domain.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByUser: scan: %w", err)
		}
		byID[d.ID] = d
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows: %w", err)
	}

	if err := r.attachSubRecords(ctx, byID); err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}

	out := make([]domain.Debt, len(debts))
	for i, d := range debts {
		out[i] = *d
	}
	return out, nil
}

func (r *DebtRepository) Delete(ctx context.Context, userID, debtID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM debts WHERE id = $1 AND user_id = $2`, debtID, userID,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrDebtNotFound)
	}
	return nil
}

func (r *DebtRepository) AddPayment(ctx context.Context, payment *domain.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, debt_id, amount, date, notes, timestamp_ms)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		payment.ID, payment.DebtID, payment.Amount, payment.Date,
		payment.Notes, payment.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("AddPayment: %w", err)
	}
	return nil
}

func (r *DebtRepository) DeletePayment(ctx context.Context, debtID, paymentID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM payments WHERE id = $1 AND debt_id = $2`, paymentID, debtID,
	)
	if err != nil {
		return fmt.Errorf("DeletePayment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeletePayment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DeletePayment: %w", domain.ErrPaymentNotFound)
	}
	return nil
}

// SetInstallmentPaid toggles the paid annotation for one installment index.
// Presence of a row means paid; the flag never touches the payment ledger.
func (r *DebtRepository) SetInstallmentPaid(ctx context.Context, debtID uuid.UUID, index int, paid bool) error {
	if paid {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO installment_flags (debt_id, idx) VALUES ($1, $2)
			 ON CONFLICT (debt_id, idx) DO NOTHING`,
			debtID, index,
		)
		if err != nil {
			return fmt.Errorf("SetInstallmentPaid: %w", err)
		}
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM installment_flags WHERE debt_id = $1 AND idx = $2`,
		debtID, index,
	)
	if err != nil {
		return fmt.Errorf("SetInstallmentPaid: %w", err)
	}
	return nil
}

// attachSubRecords loads payments and installment paid flags for the given
// debts in two queries. Payments come back most recent first for display.
func (r *DebtRepository) attachSubRecords(ctx context.Context, byID map[uuid.UUID]*domain.Debt) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE debt_id = ANY($1) ORDER BY date DESC, timestamp_ms DESC`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("attachSubRecords: payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount, &p.Date, &p.Notes, &p.Timestamp); err != nil {
			return fmt.Errorf("attachSubRecords: scan payment: %w", err)
		}
		if d, ok := byID[p.DebtID]; ok {
			d.Payments = append(d.Payments, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("attachSubRecords: payment rows: %w", err)
	}

	flagRows, err := r.db.QueryContext(ctx,
		`SELECT debt_id, idx FROM installment_flags WHERE debt_id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("attachSubRecords: flags: %w", err)
	}
	defer flagRows.Close()

	for flagRows.Next() {
		var debtID uuid.UUID
		var idx int
		if err := flagRows.Scan(&debtID, &idx); err != nil {
			return fmt.Errorf("attachSubRecords: scan flag: %w", err)
		}
		d, ok := byID[debtID]
		if !ok || d.Installments == nil {
			continue
		}
		if d.Installments.Paid == nil {
			d.Installments.Paid = make(map[int]bool)
		}
		d.Installments.Paid[idx] = true
	}
	if err := flagRows.Err(); err != nil {
		return fmt.Errorf("attachSubRecords: flag rows: %w", err)
	}

	return nil
}

func scanDebt(s scanner) (*domain.Debt, error) {
	var d domain.Debt
	var count sql.NullInt64
	var frequency sql.NullString

	err := s.Scan(
		&d.ID, &d.UserID, &d.Person, &d.Mode, &d.Amount, &d.Currency,
		&d.DueDate, &d.InterestRate, &d.InterestType, &d.Notes, &d.CreatedAt,
		&count, &frequency,
	)
	if err != nil {
		return nil, err
	}

	if count.Valid {
		d.Installments = &domain.InstallmentPlan{
			Count:     int(count.Int64),
			Frequency: domain.Frequency(frequency.String),
		}
	}
	return &d, nil
}
