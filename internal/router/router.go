package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations (sign-up, login, refresh, logout, password reset) live
// under /v1/users; /v1/users/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/users")
	g.POST("/sign-up", a.SignUp)
	g.POST("/login", a.Login)
	// Rotates the refresh token: the presented token is revoked and a
	// new pair is returned.
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so it does not need
	// a JWT.  Invalidating the token ends the session; the access
	// token simply expires.
	g.POST("/logout", a.Logout)
	g.POST("/forget-password", a.ForgetPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1/users")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterRooms registers the rooms catalog.  Reads require a bearer
// token; the catalog is the same for every caller, so read responses
// go through the shared response cache.  Writes are admin only.
func RegisterRooms(e *echo.Echo, r *handler.RoomHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms")
	g.Use(middleware.JWTAuth(jwtSecret))
	if cache != nil {
		g.GET("", r.List, cache)
		g.GET("/:id", r.Get, cache)
	} else {
		g.GET("", r.List)
		g.GET("/:id", r.Get)
	}
	g.POST("", r.Create, middleware.RequireRole(model.RoleAdmin))
	g.PUT("/:id", r.Update, middleware.RequireRole(model.RoleAdmin))
	g.DELETE("/:id", r.Delete, middleware.RequireRole(model.RoleAdmin))
}

// RegisterBookings registers the booking lifecycle.  Everything is
// behind the JWT; per-record ownership is enforced in the handlers
// because admins may touch any booking.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", b.Create)
	g.GET("", b.List)
	g.GET("/:id", b.Get)
	// Mutating someone's stay is an operator action.
	g.PUT("/:id", b.Update, middleware.RequireRole(model.RoleAdmin))
	g.DELETE("/:id", b.Delete, middleware.RequireRole(model.RoleAdmin))
}

// RegisterPayments registers the checkout flow.  The webhook is
// unauthenticated; its trust comes from the gateway signature, not a
// JWT.  The payments list is an admin report.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler, jwtSecret string) {
	e.POST("/v1/payments/webhook", p.Webhook)

	g := e.Group("/v1/payments")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", p.CreateCheckout)
	g.GET("/:id", p.Get)
	g.GET("", p.List, middleware.RequireRole(model.RoleAdmin))
}
