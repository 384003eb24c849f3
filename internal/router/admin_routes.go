package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/handler"
	"github.com/MarcoBenedictus/GameSuite/internal/middleware"
)

// RegisterAdmin registers the management surface under /v1/admin.  All
// routes require a valid JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/reservations", h.FloorReservations) // ?floor=1|2|3
	g.DELETE("/reservations/:id", h.DeleteReservation)
	g.GET("/memberships", h.ListMemberships)
	g.PUT("/memberships/:id", h.UpdateMembership)
	g.DELETE("/memberships/:id", h.DeleteMembership)
	g.GET("/users", h.ListUsers)
	g.POST("/sweep", h.Sweep)
	g.GET("/chat/inbox", h.Inbox)
}
