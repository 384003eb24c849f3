package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/booking"
	"github.com/MarcoBenedictus/GameSuite/internal/model"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
	"github.com/MarcoBenedictus/GameSuite/internal/service"
)

// ReservationHandler drives the three-step booking wizard:
// create a provisional reservation, attach a time slot, then pay.
type ReservationHandler struct {
	Svc          *booking.Service
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
	Publisher    *service.QueuePublisher // nil when RabbitMQ is not configured
}

func NewReservationHandler(svc *booking.Service, u *repository.UserRepo, r *repository.ReservationRepo, pub *service.QueuePublisher) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Users: u, Reservations: r, Publisher: pub}
}

// ----- DTOs -----

type createReservationReq struct {
	People int `json:"people"`
}
type slotReq struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
}
type paymentReq struct {
	PaymentMethod string `json:"payment_method"`
}

type reservationPart struct {
	ID            uint64 `json:"id"`
	Room          string `json:"room"`
	Floor         int    `json:"floor"`
	Status        string `json:"status"`
	Date          string `json:"date,omitempty"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	DurationHours int    `json:"duration_hours,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

func reservationView(r model.Reservation) reservationPart {
	p := reservationPart{
		ID:            r.ID,
		Room:          r.Room,
		Floor:         r.Floor,
		Status:        r.Status,
		DurationHours: r.DurationHours,
		PaymentMethod: r.PaymentMethod,
	}
	if r.Date != nil {
		p.Date = r.Date.Format("2006-01-02")
	}
	if r.StartTime != nil {
		p.StartTime = r.StartTime.Format("15:04")
	}
	if r.EndTime != nil {
		p.EndTime = r.EndTime.Format("15:04")
	}
	return p
}

// bookingError maps booking sentinel errors to HTTP responses.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrBadCapacity),
		errors.Is(err, booking.ErrPastDate),
		errors.Is(err, booking.ErrNotWholeHour),
		errors.Is(err, booking.ErrStartInPast),
		errors.Is(err, booking.ErrEndBeforeStart),
		errors.Is(err, booking.ErrOutsideHours),
		errors.Is(err, booking.ErrNoSlot):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNoRoomAvailable),
		errors.Is(err, booking.ErrAlreadyConfirmed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your reservation"})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}
}

// Create: step one of the wizard. Allocates a provisional room on the
// floor that matches the party size.
func (h *ReservationHandler) Create(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.CreateProvisional(ctx, user, req.People)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, reservationView(res))
}

// AssignSlot: step two. Validates the requested window and claims the
// slot, moving to another room on the same floor when this one is taken.
func (h *ReservationHandler) AssignSlot(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req slotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be HH:MM"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Svc.ConfirmSlot(ctx, resID, user, date, start, end)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationView(res))
}

// Pay: step three. Prices the stay with the member's discount and
// confirms the reservation.
func (h *ReservationHandler) Pay(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil || req.PaymentMethod == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	total, res, err := h.Svc.RecordPayment(ctx, resID, u, req.PaymentMethod)
	if err != nil {
		return bookingError(c, err)
	}

	if h.Publisher != nil {
		h.Publisher.PublishReservationConfirmed(ctx, res, u, total)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reservation": reservationView(res),
		"total_cost":  total,
	})
}

// ListMine: the caller's reservations, newest date first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByUser(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reservationPart, 0, len(list))
	for _, r := range list {
		out = append(out, reservationView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// GetMine: a single reservation, owner only.
func (h *ReservationHandler) GetMine(c echo.Context) error {
	user := username(c)
	if user == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByIDForUser(ctx, resID, user)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, reservationView(res))
}
