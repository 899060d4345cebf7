package handler

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/payment"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-booking/internal/service"
)

// checkoutGateway is the slice of the payment gateway the handler
// uses.  Narrowing it to an interface keeps webhook settlement
// testable without a signed gateway event.
type checkoutGateway interface {
	CreateCheckoutSession(bookingID uint64, description string, amount float64) (payment.CheckoutSession, error)
	ParseWebhook(payload []byte, sigHeader string) (*payment.CompletedCheckout, error)
}

type paymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (model.Payment, error)
	List(ctx context.Context, q repository.ListQuery) ([]map[string]any, error)
}

type bookingStore interface {
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	Confirm(ctx context.Context, id uint64) error
}

type roomStore interface {
	GetByID(ctx context.Context, id uint64) (model.Room, error)
}

type userStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// PaymentHandler drives the hosted-checkout flow: a client opens a
// checkout session for a pending booking, the gateway calls back via
// webhook, and the webhook settles the payment and confirms the
// booking.
type PaymentHandler struct {
	Gateway  checkoutGateway
	Payments paymentStore
	Bookings bookingStore
	Rooms    roomStore
	Users    userStore
}

func NewPaymentHandler(g *payment.Gateway, p *repository.PaymentRepo, b *repository.BookingRepo, r *repository.RoomRepo, u *repository.UserRepo) *PaymentHandler {
	return &PaymentHandler{Gateway: g, Payments: p, Bookings: b, Rooms: r, Users: u}
}

type checkoutReq struct {
	BookingID uint64  `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

// CreateCheckout opens a checkout session for one of the caller's
// pending bookings.  The stated amount is validated against the room's
// nightly price times the number of nights, so a client cannot pay a
// cent for a penthouse week.
func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bookingId is required"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != uid && !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status != model.BookingPending {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is not payable"})
	}

	room, err := h.Rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	nights := int(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	if due := room.Price * float64(nights); req.Amount < due {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount does not cover the booking"})
	}

	sess, err := h.Gateway.CreateCheckoutSession(b.ID, room.Name, req.Amount)
	if err != nil {
		log.Error().Err(err).Uint64("booking_id", b.ID).Msg("checkout session failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment gateway unavailable"})
	}
	return c.JSON(http.StatusOK, sess)
}

// Webhook receives gateway events.  The signature is verified against
// the raw body; a completed checkout records the payment and confirms
// the booking.  Replays are absorbed by the unique transaction id, so
// every valid delivery is acknowledged with 200.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "read body failed"})
	}

	done, err := h.Gateway.ParseWebhook(body, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		log.Warn().Err(err).Msg("webhook rejected")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid webhook"})
	}
	if done == nil {
		// Valid event of a type we do not act on.
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	bookingID, err := strconv.ParseUint(done.BookingRef, 10, 64)
	if err != nil || bookingID == 0 {
		log.Warn().Str("ref", done.BookingRef).Msg("webhook with unusable booking reference")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking reference"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	p := model.Payment{
		BookingID:     bookingID,
		Amount:        done.Amount,
		PaymentMethod: "card",
		TransactionID: done.TransactionID,
		PaymentStatus: model.PaymentCompleted,
	}
	if err := h.Payments.Create(ctx, &p); err != nil {
		if err == repository.ErrDuplicateTransaction {
			// Redelivery.  The payment row exists, but a previous
			// attempt may have failed between recording it and
			// confirming the booking, so re-run the (idempotent)
			// confirmation before acknowledging.
			if err := h.Bookings.Confirm(ctx, bookingID); err != nil {
				log.Error().Err(err).Uint64("booking_id", bookingID).Msg("confirm booking failed")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm booking failed"})
			}
			return c.JSON(http.StatusOK, echo.Map{"received": true})
		}
		log.Error().Err(err).Uint64("booking_id", bookingID).Msg("record payment failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
	}

	if err := h.Bookings.Confirm(ctx, bookingID); err != nil {
		log.Error().Err(err).Uint64("booking_id", bookingID).Msg("confirm booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm booking failed"})
	}

	h.publishConfirmed(ctx, bookingID, p.Amount)
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// publishConfirmed emits the booking.confirmed event.  Enrichment and
// publishing are best-effort: the payment is already settled, so any
// failure here is logged and swallowed.
func (h *PaymentHandler) publishConfirmed(ctx context.Context, bookingID uint64, amount float64) {
	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		log.Warn().Err(err).Uint64("booking_id", bookingID).Msg("load booking for event failed")
		return
	}
	u, err := h.Users.GetByID(ctx, b.UserID)
	if err != nil {
		log.Warn().Err(err).Uint64("booking_id", bookingID).Msg("load user for event failed")
		return
	}
	room, err := h.Rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		log.Warn().Err(err).Uint64("booking_id", bookingID).Msg("load room for event failed")
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UserID:      u.ID,
		UserEmail:   u.Email,
		UserName:    u.Name,
		RoomID:      room.ID,
		RoomName:    room.Name,
		StartDate:   b.StartDate.Format("2006-01-02"),
		EndDate:     b.EndDate.Format("2006-01-02"),
		Amount:      amount,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_ = queue_publisher.PublishBookingConfirmed(ctx, ev)
}

// Get returns one payment.  Users can see payments on their own
// bookings; admins any.
func (h *PaymentHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !isAdmin(c) {
		b, err := h.Bookings.GetByID(ctx, p.BookingID)
		if err != nil || b.UserID != uid {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            p.ID,
		"bookingId":     p.BookingID,
		"amount":        p.Amount,
		"paymentMethod": p.PaymentMethod,
		"transactionId": p.TransactionID,
		"paymentStatus": p.PaymentStatus,
		"paymentDate":   p.PaymentDate,
	})
}

// List returns a page of payments (admin only, enforced by route
// middleware).
func (h *PaymentHandler) List(c echo.Context) error {
	p := c.QueryParams()
	q := repository.NewListQuery().Filter(p).Sort(p).LimitFields(p).Paginate(p)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Payments.List(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	page, size := q.Page()
	return c.JSON(http.StatusOK, echo.Map{"data": items, "page": page, "page_size": size})
}
