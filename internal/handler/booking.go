package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// BookingHandler serves the booking lifecycle.  All routes require
// authentication; non-admins only ever see and touch their own
// bookings.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
}

func NewBookingHandler(b *repository.BookingRepo, r *repository.RoomRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Rooms: r}
}

type bookingCreateReq struct {
	RoomID    uint64 `json:"roomId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type bookingUpdateReq struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

type bookingResp struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	RoomID    uint64    `json:"roomId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		UserID:    b.UserID,
		RoomID:    b.RoomID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}

// parseWindow validates a start/end pair: both parse, and the window
// is non-empty (start strictly before end).
func parseWindow(startRaw, endRaw string) (start, end time.Time, msg string) {
	if startRaw == "" || endRaw == "" {
		return start, end, "startDate and endDate are required"
	}
	start, err := parseDate(startRaw)
	if err != nil {
		return start, end, "invalid startDate"
	}
	end, err = parseDate(endRaw)
	if err != nil {
		return start, end, "invalid endDate"
	}
	if !start.Before(end) {
		return start, end, "startDate must be before endDate"
	}
	return start, end, ""
}

// Create books a room for the authenticated user.  The repository
// enforces the no-overlap rule under a per-room lock; a busy window
// comes back as 409.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookingCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId is required"})
	}
	start, end, msg := parseWindow(req.StartDate, req.EndDate)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b := model.Booking{UserID: uid, RoomID: req.RoomID, StartDate: start, EndDate: end}
	if err := h.Bookings.Create(ctx, &b); err != nil {
		switch err {
		case sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrRoomUnavailable:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for the selected dates"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Get returns one booking.  Users can only read their own; admins can
// read any.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// List returns a page of bookings.  Admins see everything the filters
// match; everyone else is scoped to their own rows regardless of any
// userId filter in the query string.
func (h *BookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p := c.QueryParams()
	q := repository.NewListQuery().Filter(p).Sort(p).LimitFields(p).Paginate(p)
	if !isAdmin(c) {
		q = q.Where("userId", uid)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.List(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	page, size := q.Page()
	return c.JSON(http.StatusOK, echo.Map{"data": items, "page": page, "page_size": size})
}

// Update changes a booking's dates or status (admin only, enforced by
// route middleware).  Moving an active booking re-runs the
// availability guard with the booking itself excluded, so shrinking
// or shifting within its own window works.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req bookingUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Apply only the fields the client sent.
	if req.StartDate != "" || req.EndDate != "" {
		startRaw, endRaw := req.StartDate, req.EndDate
		if startRaw == "" {
			startRaw = b.StartDate.Format(time.RFC3339)
		}
		if endRaw == "" {
			endRaw = b.EndDate.Format(time.RFC3339)
		}
		start, end, msg := parseWindow(startRaw, endRaw)
		if msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		b.StartDate, b.EndDate = start, end
	}
	if req.Status != "" {
		if !model.ValidBookingStatus(req.Status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		b.Status = req.Status
	}

	if err := h.Bookings.Update(ctx, &b); err != nil {
		if err == repository.ErrRoomUnavailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is not available for the selected dates"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}

	updated, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(updated))
}

// Delete removes a booking (admin only, enforced by route middleware).
func (h *BookingHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
