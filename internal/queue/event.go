// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a payment webhook confirms a
// booking.  It contains enough information for downstream consumers to
// notify the guest or feed analytics without querying the primary
// database.
type BookingConfirmedEvent struct {
    BookingID   uint64  `json:"booking_id"`
    UserID      uint64  `json:"user_id"`
    UserEmail   string  `json:"user_email"`
    UserName    string  `json:"user_name"`
    RoomID      uint64  `json:"room_id"`
    RoomName    string  `json:"room_name"`
    StartDate   string  `json:"start_date"`
    EndDate     string  `json:"end_date"`
    Amount      float64 `json:"amount"`
    ConfirmedAt string  `json:"confirmed_at"`
}
