package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings and enforces the
// non-overlap invariant at the storage layer.  The application-level
// guard (HasConflict) is only a fast pre-check: two concurrent
// requests can both pass it before either insert commits.  Create and
// Update therefore lock the parent room row inside a transaction and
// re-run the guard, serializing all writers for a room so the
// check-then-act sequence is atomic.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingColumns is the query-builder whitelist for list endpoints.
var BookingColumns = NewColumnSet().
	Number("id", "id").
	Number("userId", "user_id").
	Number("roomId", "room_id").
	Time("startDate", "start_date").
	Time("endDate", "end_date").
	Text("status", "status").
	Time("createdAt", "created_at").
	Time("updatedAt", "updated_at").Hidden()

// rowQuerier lets the guard run against either the pool or an open
// transaction.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasConflict reports whether any active (pending or confirmed)
// booking for the room intersects the half-open interval
// [start, end).  Touching endpoints are not conflicts, so
// back-to-back stays are allowed.  excludeID skips one booking,
// which lets an update ignore the booking being moved; pass 0 to
// check them all.  This is an existence check only; no rows are
// enumerated.
func (r *BookingRepo) HasConflict(ctx context.Context, roomID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	return hasConflict(ctx, r.db, roomID, start, end, excludeID)
}

// activeStatusIn is one placeholder per active status, so the guard
// query stays in sync with model.ActiveBookingStatuses.
var activeStatusIn = "?" + strings.Repeat(",?", len(model.ActiveBookingStatuses)-1)

func hasConflict(ctx context.Context, q rowQuerier, roomID uint64, start, end time.Time, excludeID uint64) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE room_id = ? AND id <> ?
		  AND status IN (` + activeStatusIn + `)
		  AND start_date < ? AND end_date > ?)`
	args := make([]any, 0, len(model.ActiveBookingStatuses)+4)
	args = append(args, roomID, excludeID)
	for _, s := range model.ActiveBookingStatuses {
		args = append(args, s)
	}
	args = append(args, end, start)
	var exists bool
	err := q.QueryRowContext(ctx, query, args...).Scan(&exists)
	return exists, err
}

// lockRoomTx takes the per-room write lock.  Returns sql.ErrNoRows
// when the room does not exist.
func lockRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	var id uint64
	return tx.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id = ? FOR UPDATE", roomID).Scan(&id)
}

// Create inserts a new pending booking after verifying the room is
// free for the requested dates.  The room row is locked first so the
// guard and the insert form a single logical unit.  Returns
// ErrRoomUnavailable on conflict and sql.ErrNoRows when the room does
// not exist.  The generated ID and timestamps are populated on the
// provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := lockRoomTx(ctx, tx, b.RoomID); err != nil {
		return err
	}
	conflict, err := hasConflict(ctx, tx, b.RoomID, b.StartDate, b.EndDate, 0)
	if err != nil {
		return err
	}
	if conflict {
		return ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, room_id, start_date, end_date, status) VALUES (?,?,?,?,?)",
		b.UserID, b.RoomID, b.StartDate, b.EndDate, model.BookingPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	b.Status = model.BookingPending
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM bookings WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a booking by id.  Returns sql.ErrNoRows when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, room_id, start_date, end_date, status, created_at, updated_at
		 FROM bookings WHERE id=? LIMIT 1`, id).
		Scan(&b.ID, &b.UserID, &b.RoomID, &b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// Update rewrites a booking's dates and status.  When the booking
// stays (or becomes) active, the room lock is taken and the guard is
// re-run excluding the booking itself, so moving a stay cannot create
// an overlap.  Cancelling never needs the guard: a cancelled booking
// blocks nobody.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if b.Status != model.BookingCancelled {
		if err := lockRoomTx(ctx, tx, b.RoomID); err != nil {
			return err
		}
		conflict, err := hasConflict(ctx, tx, b.RoomID, b.StartDate, b.EndDate, b.ID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrRoomUnavailable
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET start_date=?, end_date=?, status=? WHERE id=?",
		b.StartDate, b.EndDate, b.Status, b.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		var id uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM bookings WHERE id=?", b.ID).Scan(&id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Confirm moves a pending booking to confirmed.  Called by the
// payment webhook; confirming an already confirmed booking is a
// no-op, which keeps webhook replays harmless.
func (r *BookingRepo) Confirm(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND status=?",
		model.BookingConfirmed, id, model.BookingPending)
	return err
}

// Delete removes a booking.  Returns sql.ErrNoRows when absent.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List executes a built query over bookings.
func (r *BookingRepo) List(ctx context.Context, q ListQuery) ([]map[string]any, error) {
	return listRows(ctx, r.db, "bookings", q, BookingColumns)
}
