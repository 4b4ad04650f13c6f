package model

import "time"

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionComplete TransactionStatus = "complete"
)

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentPaid      PaymentStatus = "paid"
)

type Transaction struct {
	ID            string            `db:"transaction_id" bson:"transaction_id" json:"transaction_id"`
	SessionID     string            `db:"session_id" bson:"session_id" json:"session_id"`
	UserID        string            `db:"user_id" bson:"user_id" json:"user_id"`
	Email         string            `db:"email" bson:"email" json:"email"`
	Amount        float64           `db:"amount" bson:"amount" json:"amount"`
	Currency      string            `db:"currency" bson:"currency" json:"currency"`
	Plan          Plan              `db:"plan" bson:"plan" json:"plan"`
	Status        TransactionStatus `db:"status" bson:"status" json:"status"`
	PaymentStatus PaymentStatus     `db:"payment_status" bson:"payment_status" json:"payment_status"`
	CreatedAt     time.Time         `db:"created_at" bson:"created_at" json:"created_at"`
	PaidAt        *time.Time        `db:"paid_at" bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

func (t *Transaction) Paid() bool {
	return t.PaymentStatus == PaymentPaid
}
