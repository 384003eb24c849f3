package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/booking"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
)

// AdminHandler exposes the management surface: per-floor reservation
// views, membership records, the expiry sweep and the support inbox.
type AdminHandler struct {
	Svc          *booking.Service
	Reservations *repository.ReservationRepo
	Memberships  *repository.MembershipRepo
	Users        *repository.UserRepo
	Chat         *repository.ChatRepo
}

func NewAdminHandler(svc *booking.Service, r *repository.ReservationRepo, m *repository.MembershipRepo, u *repository.UserRepo, ch *repository.ChatRepo) *AdminHandler {
	return &AdminHandler{Svc: svc, Reservations: r, Memberships: m, Users: u, Chat: ch}
}

// FloorReservations lists every reservation on one floor, including who
// holds it and its wizard state.
func (h *AdminHandler) FloorReservations(c echo.Context) error {
	floor, err := strconv.Atoi(c.QueryParam("floor"))
	if err != nil || floor < 1 || floor > 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "floor must be 1, 2 or 3"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByFloor(ctx, floor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(list))
	for _, r := range list {
		v := reservationView(r)
		out = append(out, echo.Map{"reservation": v, "username": r.Username})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"floor":        floor,
		"capacity":     booking.CapacityForFloor(floor),
		"rooms":        booking.RoomPool(floor),
		"reservations": out,
	})
}

// DeleteReservation removes any reservation regardless of owner.
func (h *AdminHandler) DeleteReservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMemberships returns every membership record.
func (h *AdminHandler) ListMemberships(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Memberships.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	now := time.Now()
	out := make([]echo.Map, 0, len(list))
	for _, m := range list {
		out = append(out, echo.Map{
			"id":             m.ID,
			"user_id":        m.UserID,
			"email":          m.Email,
			"name":           m.Name,
			"phone_number":   m.PhoneNumber,
			"gender":         m.Gender,
			"tier":           m.Tier,
			"start_date":     m.StartDate.Format("2006-01-02"),
			"duration_days":  m.DurationDays,
			"expires_at":     m.ExpiresAt().Format("2006-01-02"),
			"active":         m.ActiveAt(now),
			"remaining_days": m.RemainingDays(now),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"memberships": out})
}

type membershipUpdateReq struct {
	Tier         string `json:"tier"`
	DurationDays int    `json:"duration_days"`
	IsActive     bool   `json:"is_active"`
}

// UpdateMembership edits a membership record in place.
func (h *AdminHandler) UpdateMembership(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership id"})
	}
	var req membershipUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Tier != "Premium" && req.Tier != "Deluxe" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tier must be Premium or Deluxe"})
	}
	if req.DurationDays <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_days must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Memberships.Update(ctx, id, req.Tier, req.DurationDays, req.IsActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteMembership removes a membership record.
func (h *AdminHandler) DeleteMembership(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid membership id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Memberships.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Sweep runs the expiry pass on demand and reports what it removed.
func (h *AdminHandler) Sweep(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	pending, past, err := h.Svc.SweepExpired(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sweep failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"deleted_pending":   pending,
		"deleted_confirmed": past,
	})
}

// Inbox lists the latest support message per user, newest first.
func (h *AdminHandler) Inbox(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Chat.AdminInbox(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"inbox": entries})
}

// ListUsers returns every registered account.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"id":         u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"role":       u.Role,
			"membership": u.Membership,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}
