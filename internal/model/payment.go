package model

import "time"

// Payment status values mirroring the gateway's view of a charge.
const (
    PaymentPending   = "pending"
    PaymentCompleted = "completed"
    PaymentFailed    = "failed"
)

// Payment records a gateway charge against a booking.  Rows are
// created only by the webhook handler after the gateway confirms a
// completed checkout session; there is no client-facing write path.
// TransactionID carries the gateway's payment reference and is
// unique, which makes webhook replays idempotent.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking the payment settles.
//  Amount        – amount charged, in the account currency.
//  PaymentMethod – method reported by the gateway (e.g. card).
//  TransactionID – unique gateway payment reference.
//  PaymentStatus – pending, completed or failed.
//  PaymentDate   – when the payment was recorded.
type Payment struct {
    ID            uint64    // payments.id
    BookingID     uint64    // payments.booking_id
    Amount        float64   // payments.amount
    PaymentMethod string    // payments.payment_method
    TransactionID string    // payments.transaction_id
    PaymentStatus string    // payments.payment_status
    PaymentDate   time.Time // payments.payment_date
}
