package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/payment"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// ----- fakes for webhook settlement -----

type fakeGateway struct {
	done *payment.CompletedCheckout
	err  error
}

func (f *fakeGateway) CreateCheckoutSession(bookingID uint64, description string, amount float64) (payment.CheckoutSession, error) {
	return payment.CheckoutSession{ID: "cs_test", URL: "https://checkout.test"}, nil
}

func (f *fakeGateway) ParseWebhook(payload []byte, sigHeader string) (*payment.CompletedCheckout, error) {
	return f.done, f.err
}

type fakePayments struct {
	createErr error
	created   []model.Payment
}

func (f *fakePayments) Create(ctx context.Context, p *model.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePayments) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	return model.Payment{}, sql.ErrNoRows
}

func (f *fakePayments) List(ctx context.Context, q repository.ListQuery) ([]map[string]any, error) {
	return nil, nil
}

type fakeBookings struct {
	booking    model.Booking
	getErr     error
	confirmErr error
	confirmed  []uint64
}

func (f *fakeBookings) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	if f.getErr != nil {
		return model.Booking{}, f.getErr
	}
	return f.booking, nil
}

func (f *fakeBookings) Confirm(ctx context.Context, id uint64) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

type fakeRooms struct{}

func (fakeRooms) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	return model.Room{}, sql.ErrNoRows
}

type fakeUsers struct{}

func (fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return model.User{}, sql.ErrNoRows
}

func newWebhookHandler(g *fakeGateway, p *fakePayments, b *fakeBookings) *PaymentHandler {
	return &PaymentHandler{Gateway: g, Payments: p, Bookings: b, Rooms: fakeRooms{}, Users: fakeUsers{}}
}

// ----- tests -----

func TestWebhookCompletedCheckoutRecordsAndConfirms(t *testing.T) {
	gw := &fakeGateway{done: &payment.CompletedCheckout{BookingRef: "7", TransactionID: "pi_1", Amount: 250}}
	pay := &fakePayments{}
	bk := &fakeBookings{booking: model.Booking{ID: 7, UserID: 3, RoomID: 5}, getErr: sql.ErrNoRows}
	h := newWebhookHandler(gw, pay, bk)

	c, rec := newJSONContext(http.MethodPost, "/v1/payments/webhook", `{}`)
	require.NoError(t, h.Webhook(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pay.created, 1)
	assert.Equal(t, uint64(7), pay.created[0].BookingID)
	assert.Equal(t, "pi_1", pay.created[0].TransactionID)
	assert.Equal(t, model.PaymentCompleted, pay.created[0].PaymentStatus)
	assert.Equal(t, []uint64{7}, bk.confirmed)
}

func TestWebhookRedeliveryStillConfirmsBooking(t *testing.T) {
	// A prior delivery recorded the payment but died before the
	// booking moved out of pending.  The retry hits the duplicate
	// transaction, and must still confirm before acknowledging.
	gw := &fakeGateway{done: &payment.CompletedCheckout{BookingRef: "7", TransactionID: "pi_1", Amount: 250}}
	pay := &fakePayments{createErr: repository.ErrDuplicateTransaction}
	bk := &fakeBookings{}
	h := newWebhookHandler(gw, pay, bk)

	c, rec := newJSONContext(http.MethodPost, "/v1/payments/webhook", `{}`)
	require.NoError(t, h.Webhook(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint64{7}, bk.confirmed)
}

func TestWebhookRedeliveryConfirmFailureIsRetryable(t *testing.T) {
	gw := &fakeGateway{done: &payment.CompletedCheckout{BookingRef: "7", TransactionID: "pi_1", Amount: 250}}
	pay := &fakePayments{createErr: repository.ErrDuplicateTransaction}
	bk := &fakeBookings{confirmErr: errors.New("deadlock")}
	h := newWebhookHandler(gw, pay, bk)

	c, rec := newJSONContext(http.MethodPost, "/v1/payments/webhook", `{}`)
	require.NoError(t, h.Webhook(c))

	// 500 keeps the gateway retrying until the confirmation lands.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	gw := &fakeGateway{} // valid event, not a completed checkout
	pay := &fakePayments{}
	bk := &fakeBookings{}
	h := newWebhookHandler(gw, pay, bk)

	c, rec := newJSONContext(http.MethodPost, "/v1/payments/webhook", `{}`)
	require.NoError(t, h.Webhook(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pay.created)
	assert.Empty(t, bk.confirmed)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	gw := &fakeGateway{err: errors.New("signature mismatch")}
	h := newWebhookHandler(gw, &fakePayments{}, &fakeBookings{})

	c, rec := newJSONContext(http.MethodPost, "/v1/payments/webhook", `{}`)
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookRejectsUnusableBookingRef(t *testing.T) {
	gw := &fakeGateway{done: &payment.CompletedCheckout{BookingRef: "not-a-number", TransactionID: "pi_1"}}
	h := newWebhookHandler(gw, &fakePayments{}, &fakeBookings{})

	c, rec := newJSONContext(http.MethodPost, "/v1/payments/webhook", `{}`)
	require.NoError(t, h.Webhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
