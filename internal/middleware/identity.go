package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID pulls the identity stored by JWTAuth out of the Echo
// context for use in rate-limit keys; when no user is authenticated it
// returns "anon".

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from the context.  JWT
// numeric claims decode as float64, so the value is formatted rather
// than type-asserted to a string.
func currentUserID(c echo.Context) string {
    if v := c.Get("username"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    if v := c.Get("user_id"); v != nil {
        return fmt.Sprint(v)
    }
    return "anon"
}
