package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// RoomHandler serves the rooms catalog.  Reads are public; writes
// require the admin role (enforced by route middleware).
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(r *repository.RoomRepo) *RoomHandler {
	return &RoomHandler{Rooms: r}
}

type roomReq struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	GuestCapacity uint32   `json:"guestCapacity"`
	Price         float64  `json:"price"`
	Location      string   `json:"location"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
}

type roomResp struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	GuestCapacity uint32    `json:"guestCapacity"`
	Price         float64   `json:"price"`
	Location      string    `json:"location"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toRoomResp(r model.Room) roomResp {
	return roomResp{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		GuestCapacity: r.GuestCapacity,
		Price:         r.Price,
		Location:      r.Location,
		Amenities:     r.Amenities,
		Images:        r.Images,
		CreatedAt:     r.CreatedAt,
	}
}

func (req *roomReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	switch {
	case req.Name == "":
		return "name is required"
	case req.GuestCapacity == 0:
		return "guestCapacity must be positive"
	case req.Price <= 0:
		return "price must be positive"
	case req.Location == "":
		return "location is required"
	case len(req.Images) == 0:
		return "at least one image is required"
	}
	return ""
}

func (req *roomReq) toModel() model.Room {
	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return model.Room{
		Name:          req.Name,
		Description:   req.Description,
		GuestCapacity: req.GuestCapacity,
		Price:         req.Price,
		Location:      req.Location,
		Amenities:     amenities,
		Images:        req.Images,
	}
}

// Create adds a room to the catalog (admin only).
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room := req.toModel()
	if err := h.Rooms.Create(ctx, &room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// Get returns a single room by id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(room))
}

// List returns a filtered, sorted, projected page of the catalog.
// Filtering supports equality (location=Paris) and range brackets
// (price[lte]=200); sort takes a comma list with '-' for descending;
// fields limits the projection.
func (h *RoomHandler) List(c echo.Context) error {
	p := c.QueryParams()
	q := repository.NewListQuery().Filter(p).Sort(p).LimitFields(p).Paginate(p)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Rooms.List(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	page, size := q.Page()
	return c.JSON(http.StatusOK, echo.Map{"data": items, "page": page, "page_size": size})
}

// Update rewrites a room (admin only).
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	room := req.toModel()
	room.ID = id
	if err := h.Rooms.Update(ctx, &room); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}

	updated, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(updated))
}

// Delete removes a room (admin only).
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
