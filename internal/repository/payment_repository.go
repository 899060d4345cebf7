package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// PaymentRepo stores gateway charge records.  Rows are written only
// by the webhook path; there is no client-facing write endpoint.
type PaymentRepo struct{ db *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// PaymentColumns is the query-builder whitelist for the admin list
// endpoint.
var PaymentColumns = NewColumnSet().
	Number("id", "id").
	Number("bookingId", "booking_id").
	Number("amount", "amount").
	Text("paymentMethod", "payment_method").
	Text("transactionId", "transaction_id").
	Text("paymentStatus", "payment_status").
	Time("createdAt", "payment_date")

// Create records a settled payment.  The unique transaction_id index
// turns webhook replays into ErrDuplicateTransaction instead of
// duplicate rows.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (booking_id, amount, payment_method, transaction_id, payment_status)
		 VALUES (?,?,?,?,?)`,
		p.BookingID, p.Amount, p.PaymentMethod, p.TransactionID, p.PaymentStatus)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateTransaction
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT payment_date FROM payments WHERE id=?", p.ID).Scan(&p.PaymentDate)
}

// GetByID fetches a payment by id.  Returns sql.ErrNoRows when absent.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	var p model.Payment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, booking_id, amount, payment_method, transaction_id, payment_status, payment_date
		 FROM payments WHERE id=? LIMIT 1`, id).
		Scan(&p.ID, &p.BookingID, &p.Amount, &p.PaymentMethod, &p.TransactionID, &p.PaymentStatus, &p.PaymentDate)
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

// List executes a built query over payments.
func (r *PaymentRepo) List(ctx context.Context, q ListQuery) ([]map[string]any, error) {
	return listRows(ctx, r.db, "payments", q, PaymentColumns)
}
