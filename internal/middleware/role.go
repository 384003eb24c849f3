package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware that enforces that the authenticated
// user carries one of the specified roles.  It must run after JWTAuth,
// which stores the role claim in the context.  Requests with a missing
// or unrecognized role are rejected with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]struct{}, len(roles))
    for _, r := range roles {
        allowed[r] = struct{}{}
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get("role").(string)
            if role == "" {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "missing role"})
            }
            if _, ok := allowed[role]; !ok {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
            }
            return next(c)
        }
    }
}
