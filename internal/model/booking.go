package model

import "time"

// Booking status values.  Pending and confirmed bookings count as
// "active" and participate in conflict detection; cancelled bookings
// never block a room.
const (
    BookingPending   = "pending"
    BookingConfirmed = "confirmed"
    BookingCancelled = "cancelled"
)

// ActiveBookingStatuses lists the statuses that block a room's
// date range for other bookings.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed}

// Booking records a user's reservation of a room for a half-open
// date interval [StartDate, EndDate).  It corresponds to a row in
// the `bookings` table.  The non-overlap invariant: for a given
// room, no two bookings with an active status may have intersecting
// intervals.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the booking.
//  RoomID    – room being booked.
//  StartDate – check-in instant (inclusive), UTC.
//  EndDate   – check-out instant (exclusive), UTC.
//  Status    – pending, confirmed or cancelled.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Booking struct {
    ID        uint64    // bookings.id
    UserID    uint64    // bookings.user_id
    RoomID    uint64    // bookings.room_id
    StartDate time.Time // bookings.start_date
    EndDate   time.Time // bookings.end_date
    Status    string    // bookings.status
    CreatedAt time.Time // bookings.created_at
    UpdatedAt time.Time // bookings.updated_at
}

// ValidBookingStatus reports whether s is one of the known booking
// status values.
func ValidBookingStatus(s string) bool {
    switch s {
    case BookingPending, BookingConfirmed, BookingCancelled:
        return true
    }
    return false
}

// Overlaps reports whether the half-open intervals [aStart, aEnd)
// and [bStart, bEnd) intersect.  Touching endpoints do not overlap,
// which allows back-to-back bookings: a stay ending on a given day
// never conflicts with one starting that same day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && bStart.Before(aEnd)
}
