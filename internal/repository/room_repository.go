package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// RoomRepo provides CRUD operations over the rooms catalog.
// Amenities and images live in JSON columns and are marshalled at the
// repository boundary.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// RoomColumns is the query-builder whitelist for list endpoints.
// updated_at is internal metadata and excluded from the default
// projection.
var RoomColumns = NewColumnSet().
	Number("id", "id").
	Text("name", "name").
	Text("description", "description").
	Number("guestCapacity", "guest_capacity").
	Number("price", "price").
	Text("location", "location").
	JSON("amenities", "amenities").
	JSON("images", "images").
	Time("createdAt", "created_at").
	Time("updatedAt", "updated_at").Hidden()

// Create inserts a room and populates the generated ID and timestamps
// on the provided model.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	amenities, err := json.Marshal(room.Amenities)
	if err != nil {
		return err
	}
	images, err := json.Marshal(room.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (name, description, guest_capacity, price, location, amenities, images)
		 VALUES (?,?,?,?,?,?,?)`,
		room.Name, room.Description, room.GuestCapacity, room.Price, room.Location, amenities, images)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM rooms WHERE id=?", room.ID).
		Scan(&room.CreatedAt, &room.UpdatedAt)
}

// GetByID fetches a room by id.  Returns sql.ErrNoRows when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	var (
		room      model.Room
		amenities []byte
		images    []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, guest_capacity, price, location, amenities, images, created_at, updated_at
		 FROM rooms WHERE id=? LIMIT 1`, id).
		Scan(&room.ID, &room.Name, &room.Description, &room.GuestCapacity, &room.Price,
			&room.Location, &amenities, &images, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return model.Room{}, err
	}
	if err := json.Unmarshal(amenities, &room.Amenities); err != nil {
		return model.Room{}, err
	}
	if err := json.Unmarshal(images, &room.Images); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// Update rewrites all mutable fields of a room.  Returns
// sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	amenities, err := json.Marshal(room.Amenities)
	if err != nil {
		return err
	}
	images, err := json.Marshal(room.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET name=?, description=?, guest_capacity=?, price=?, location=?, amenities=?, images=?
		 WHERE id=?`,
		room.Name, room.Description, room.GuestCapacity, room.Price, room.Location, amenities, images, room.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 for a no-op update; confirm existence.
		var id uint64
		if err := r.db.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id=?", room.ID).Scan(&id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a room.  Returns sql.ErrNoRows when absent.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id=?", id)
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

// List executes a built query against the catalog.
func (r *RoomRepo) List(ctx context.Context, q ListQuery) ([]map[string]any, error) {
	return listRows(ctx, r.db, "rooms", q, RoomColumns)
}
