package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts the authenticated user id placed in the context by the JWT middleware.
func userID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return id, nil
		}
	}
	return 0, errors.New("missing user identity")
}

func username(c echo.Context) string {
	if s, ok := c.Get("username").(string); ok {
		return s
	}
	return ""
}
