package model

import "time"

// Room represents a bookable hotel room in the catalog.  It
// corresponds to a row in the `rooms` table.  Amenities and Images
// are stored as JSON arrays in the database and unpacked by the
// repository.  A room is immutable once created except via an
// explicit update; it is referenced (not owned) by bookings.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – room name.
//  Description   – free-text description.
//  GuestCapacity – maximum number of guests (>= 1).
//  Price         – nightly price (>= 0).
//  Location      – human readable location string.
//  Amenities     – set of amenity labels.
//  Images        – ordered, non-empty list of image URLs.
//  CreatedAt     – timestamp of creation.
//  UpdatedAt     – timestamp of last update.
type Room struct {
    ID            uint64    // rooms.id
    Name          string    // rooms.name
    Description   string    // rooms.description
    GuestCapacity uint32    // rooms.guest_capacity
    Price         float64   // rooms.price
    Location      string    // rooms.location
    Amenities     []string  // rooms.amenities (JSON array)
    Images        []string  // rooms.images (JSON array)
    CreatedAt     time.Time // rooms.created_at
    UpdatedAt     time.Time // rooms.updated_at
}
