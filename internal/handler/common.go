package handler

import (
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
)

var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user's ID from the context.
// JWTAuth stores the raw "sub" claim, which arrives as a float64
// after JSON decoding; issuing code uses uint64.  Both are handled.
func getUserID(c echo.Context) (uint64, error) {
    switch v := c.Get("user_id").(type) {
    case float64:
        if v > 0 {
            return uint64(v), nil
        }
    case uint64:
        if v > 0 {
            return v, nil
        }
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
            return n, nil
        }
    }
    return 0, errNoUser
}

// isAdmin reports whether the authenticated request carries the admin
// role.
func isAdmin(c echo.Context) bool {
    role, _ := c.Get("role").(string)
    return role == "admin"
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    return id, err == nil && id > 0
}

// dateLayouts are the accepted formats for booking dates: a bare
// calendar date (interpreted as midnight UTC) or a full RFC3339
// instant.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate parses a client-supplied date string into a UTC instant.
func parseDate(s string) (time.Time, error) {
    var lastErr error
    for _, layout := range dateLayouts {
        t, err := time.Parse(layout, s)
        if err == nil {
            return t.UTC(), nil
        }
        lastErr = err
    }
    return time.Time{}, lastErr
}
