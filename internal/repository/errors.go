// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings.
package repository

import "errors"

// ErrRoomUnavailable is returned when a booking cannot be created or
// moved because an active booking already covers part of the requested
// date range.  Handlers translate this into an HTTP 409 response.
var ErrRoomUnavailable = errors.New("room unavailable for the requested dates")

// ErrDuplicateTransaction is returned when a payment with the same
// gateway transaction id already exists.  Webhook deliveries are
// retried by the gateway, so this is an expected signal, not a fault.
var ErrDuplicateTransaction = errors.New("transaction already recorded")
