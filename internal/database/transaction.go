package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhold/internal/model"
)

const transactionColumns = "transaction_id, session_id, user_id, email, amount, currency, plan, status, payment_status, created_at, paid_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	t := &model.Transaction{}
	var paidAt sql.NullTime
	if err := row.Scan(&t.ID, &t.SessionID, &t.UserID, &t.Email, &t.Amount, &t.Currency,
		&t.Plan, &t.Status, &t.PaymentStatus, &t.CreatedAt, &paidAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		ts := paidAt.Time
		t.PaidAt = &ts
	}
	return t, nil
}

func (p *Postgres) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO payment_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.SessionID, t.UserID, t.Email, t.Amount, t.Currency, t.Plan, t.Status, t.PaymentStatus, t.CreatedAt, t.PaidAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error creating transaction: %w", err)
	}
	return nil
}

func (p *Postgres) FindTransaction(ctx context.Context, sessionID string) (*model.Transaction, error) {
	t, err := scanTransaction(p.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM payment_transactions WHERE session_id = $1", sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding transaction %s: %w", sessionID, err)
	}
	return t, nil
}

func (p *Postgres) ListPendingTransactions(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM payment_transactions WHERE payment_status = $1 AND created_at >= $2 ORDER BY created_at",
		model.PaymentInitiated, since)
	if err != nil {
		return nil, fmt.Errorf("error listing pending transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActivateSubscription claims the transaction with a conditional update and
// applies the plan in the same SQL transaction. A concurrent claimer blocks on
// the row lock and then matches zero rows.
func (p *Postgres) ActivateSubscription(ctx context.Context, a Activation) (activated bool, err error) {
	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil || !activated {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE payment_transactions
		SET status = $1, payment_status = $2, paid_at = $3
		WHERE session_id = $4 AND payment_status <> $2`,
		model.TransactionComplete, model.PaymentPaid, a.PaidAt, a.SessionID)
	if err != nil {
		return false, fmt.Errorf("error claiming transaction %s: %w", a.SessionID, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE users
		SET subscription_plan = $1, subscription_expires = $2
		WHERE user_id = $3`,
		a.Plan, a.Expires, a.UserID)
	if err != nil {
		return false, fmt.Errorf("error activating subscription for user %s: %w", a.UserID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, fmt.Errorf("user not found: %s", a.UserID)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing activation: %w", err)
	}
	return true, nil
}
