package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/handler"
	"github.com/MarcoBenedictus/GameSuite/internal/middleware"
)

// RegisterReservations registers the booking wizard and reservation
// views under /v1.  All routes require a valid JWT; both USER and ADMIN
// roles are accepted so admins can book rooms for themselves too.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.POST("/reservations", h.Create)
	g.POST("/reservations/:id/slot", h.AssignSlot)
	g.POST("/reservations/:id/payment", h.Pay)
	g.GET("/reservations", h.ListMine)
	g.GET("/reservations/:id", h.GetMine)
}

// RegisterMemberships registers paid-tier signup, status and renewal.
func RegisterMemberships(e *echo.Echo, h *handler.MembershipHandler, jwtSecret string) {
	g := e.Group(
		"/v1/memberships",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.POST("", h.Signup)
	g.GET("/status", h.Status)
	g.POST("/renew", h.Renew)
}

// RegisterChat registers chat history, the assistant endpoint and the
// websocket attach point.
func RegisterChat(e *echo.Echo, h *handler.ChatHandler, jwtSecret string) {
	g := e.Group(
		"/v1/chat",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.GET("/history", h.History)
	g.POST("/ai", h.AskAI)
	g.DELETE("/ai", h.ClearAI)

	// The live websocket lives outside the /v1/chat group but behind the
	// same auth chain.
	e.GET("/ws/chat", h.Attach,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
}
