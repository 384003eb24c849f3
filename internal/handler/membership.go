package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/booking"
	"github.com/MarcoBenedictus/GameSuite/internal/model"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
)

// MembershipHandler covers paid-tier signup, status and renewal.
type MembershipHandler struct {
	Users       *repository.UserRepo
	Memberships *repository.MembershipRepo
	Now         func() time.Time
}

func NewMembershipHandler(u *repository.UserRepo, m *repository.MembershipRepo) *MembershipHandler {
	return &MembershipHandler{Users: u, Memberships: m, Now: time.Now}
}

// ----- DTOs -----

type signupReq struct {
	Tier          string `json:"tier"`
	PhoneNumber   string `json:"phone_number"`
	Gender        string `json:"gender"`
	PaymentMethod string `json:"payment_method"`
}
type renewReq struct {
	Months        int    `json:"months"`
	PaymentMethod string `json:"payment_method"`
}

func validPhone(s string) bool {
	if len(s) != 12 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Signup: purchase a Premium or Deluxe membership. Refused while another
// membership is still active; the first ever signup is half price.
func (h *MembershipHandler) Signup(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var tier string
	switch strings.ToLower(strings.TrimSpace(req.Tier)) {
	case "premium":
		tier = model.TierPremium
	case "deluxe":
		tier = model.TierDeluxe
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tier must be Premium or Deluxe"})
	}
	if !validPhone(req.PhoneNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number must be exactly 12 digits"})
	}
	var gender string
	switch strings.ToLower(strings.TrimSpace(req.Gender)) {
	case "male":
		gender = "Male"
	case "female":
		gender = "Female"
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gender must be Male or Female"})
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	now := h.Now()

	if active, err := h.Memberships.ActiveByUser(ctx, uid, now); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          "membership still active",
			"tier":           active.Tier,
			"remaining_days": active.RemainingDays(now),
		})
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Half price applies only to the very first signup of the account.
	first := true
	if _, err := h.Memberships.LatestByUser(ctx, uid); err == nil {
		first = false
	} else if err != sql.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cost, err := booking.SignupCost(tier, first)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	m := model.Membership{
		UserID:            uid,
		Email:             u.Email,
		Name:              u.Username,
		PhoneNumber:       req.PhoneNumber,
		Gender:            gender,
		Tier:              tier,
		StartDate:         now,
		DurationDays:      booking.MembershipPeriodDays,
		IsActive:          true,
		InitialSignupUsed: true,
	}
	if _, err := h.Memberships.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create membership failed"})
	}
	if err := h.Users.UpdateMembership(ctx, uid, tier, req.PhoneNumber, gender); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"tier":           tier,
		"total_cost":     cost,
		"first_signup":   first,
		"start_date":     now.Format("2006-01-02"),
		"expires_at":     m.ExpiresAt().Format("2006-01-02"),
		"payment_method": req.PaymentMethod,
	})
}

// Status: the caller's current membership, evaluated at request time.
func (h *MembershipHandler) Status(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	now := h.Now()

	active, err := h.Memberships.ActiveByUser(ctx, uid, now)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusOK, echo.Map{"tier": model.TierBasic, "active": false})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tier":           active.Tier,
		"active":         true,
		"start_date":     active.StartDate.Format("2006-01-02"),
		"expires_at":     active.ExpiresAt().Format("2006-01-02"),
		"remaining_days": active.RemainingDays(now),
	})
}

// Renew: extend an active membership by 1, 3 or 6 months. Unused days
// carry over; the start date resets to today.
func (h *MembershipHandler) Renew(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req renewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	now := h.Now()

	active, err := h.Memberships.ActiveByUser(ctx, uid, now)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active membership to renew"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cost, err := booking.RenewalCost(active.Tier, req.Months)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	days := booking.RenewalDays(&active, req.Months, now)
	if err := h.Memberships.Extend(ctx, active.ID, now, days); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "renew failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tier":           active.Tier,
		"total_cost":     cost,
		"duration_days":  days,
		"start_date":     now.Format("2006-01-02"),
		"expires_at":     now.AddDate(0, 0, days).Format("2006-01-02"),
		"payment_method": req.PaymentMethod,
	})
}
