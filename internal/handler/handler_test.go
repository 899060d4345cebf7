package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newJSONContext builds an echo context carrying a JSON body, the way
// the real server would after routing.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetUserID(t *testing.T) {
	c, _ := newJSONContext(http.MethodGet, "/", "")

	_, err := getUserID(c)
	assert.Error(t, err)

	// JSON-decoded sub claim arrives as float64.
	c.Set("user_id", float64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", uint64(7))
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	c.Set("user_id", "19")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(19), id)

	c.Set("user_id", float64(0))
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	c, _ := newJSONContext(http.MethodGet, "/", "")
	assert.False(t, isAdmin(c))
	c.Set("role", "user")
	assert.False(t, isAdmin(c))
	c.Set("role", "admin")
	assert.True(t, isAdmin(c))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDate("2026-09-01T15:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC), d)

	_, err = parseDate("01/09/2026")
	assert.Error(t, err)
}

func TestParseWindow(t *testing.T) {
	_, _, msg := parseWindow("", "2026-09-05")
	assert.NotEmpty(t, msg)

	_, _, msg = parseWindow("2026-09-01", "not-a-date")
	assert.NotEmpty(t, msg)

	// Empty and inverted windows are rejected.
	_, _, msg = parseWindow("2026-09-05", "2026-09-05")
	assert.NotEmpty(t, msg)
	_, _, msg = parseWindow("2026-09-05", "2026-09-01")
	assert.NotEmpty(t, msg)

	start, end, msg := parseWindow("2026-09-01", "2026-09-05")
	assert.Empty(t, msg)
	assert.True(t, start.Before(end))
}

func TestSignUpValidation(t *testing.T) {
	h := &AuthHandler{}

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing email", `{"name":"A","password":"x","confirmPassword":"x"}`},
		{"missing password", `{"name":"A","email":"a@b.c"}`},
		{"password mismatch", `{"name":"A","email":"a@b.c","password":"x","confirmPassword":"y"}`},
		{"malformed json", `{"name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/v1/users/sign-up", tc.body)
			require.NoError(t, h.SignUp(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	h := &AuthHandler{}

	c, rec := newJSONContext(http.MethodPost, "/v1/users/login", `{"email":"","password":""}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRequiresToken(t *testing.T) {
	h := &AuthHandler{}

	c, rec := newJSONContext(http.MethodPost, "/v1/users/refresh", `{}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newJSONContext(http.MethodPost, "/v1/users/refresh", `{"refresh_token":"   "}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetPasswordValidation(t *testing.T) {
	h := &AuthHandler{}

	cases := []struct {
		name string
		body string
	}{
		{"missing otp", `{"email":"a@b.c","newPassword":"x","confirmPassword":"x"}`},
		{"mismatch", `{"email":"a@b.c","otp":"123456","newPassword":"x","confirmPassword":"y"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/v1/users/reset-password", tc.body)
			require.NoError(t, h.ResetPassword(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRoomCreateValidation(t *testing.T) {
	h := &RoomHandler{}

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"guestCapacity":2,"price":100,"location":"Paris"}`},
		{"zero capacity", `{"name":"Suite","guestCapacity":0,"price":100,"location":"Paris"}`},
		{"non-positive price", `{"name":"Suite","guestCapacity":2,"price":0,"location":"Paris"}`},
		{"missing location", `{"name":"Suite","guestCapacity":2,"price":100}`},
		{"no images", `{"name":"Suite","guestCapacity":2,"price":100,"location":"Paris"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/v1/rooms", tc.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRoomGetRejectsBadID(t *testing.T) {
	h := &RoomHandler{}

	c, rec := newJSONContext(http.MethodGet, "/v1/rooms/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingCreateValidation(t *testing.T) {
	h := &BookingHandler{}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing room", `{"startDate":"2026-09-01","endDate":"2026-09-05"}`, http.StatusBadRequest},
		{"missing dates", `{"roomId":1}`, http.StatusBadRequest},
		{"bad date format", `{"roomId":1,"startDate":"01/09/2026","endDate":"2026-09-05"}`, http.StatusBadRequest},
		{"empty window", `{"roomId":1,"startDate":"2026-09-05","endDate":"2026-09-05"}`, http.StatusBadRequest},
		{"inverted window", `{"roomId":1,"startDate":"2026-09-09","endDate":"2026-09-05"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(http.MethodPost, "/v1/bookings", tc.body)
			c.Set("user_id", uint64(1))
			require.NoError(t, h.Create(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestBookingCreateRequiresAuth(t *testing.T) {
	h := &BookingHandler{}

	c, rec := newJSONContext(http.MethodPost, "/v1/bookings", `{"roomId":1,"startDate":"2026-09-01","endDate":"2026-09-05"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutValidation(t *testing.T) {
	h := &PaymentHandler{}

	c, rec := newJSONContext(http.MethodPost, "/v1/payments", `{}`)
	c.Set("user_id", uint64(1))
	require.NoError(t, h.CreateCheckout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newJSONContext(http.MethodPost, "/v1/payments", `{"bookingId":3,"amount":0}`)
	c.Set("user_id", uint64(1))
	require.NoError(t, h.CreateCheckout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/healthz", "")
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
