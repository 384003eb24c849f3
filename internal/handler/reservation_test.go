package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcoBenedictus/GameSuite/internal/booking"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealth(t *testing.T) {
	c, rec := newTestContext(t)
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestBookingErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad capacity", err: booking.ErrBadCapacity, want: http.StatusBadRequest},
		{name: "past date", err: booking.ErrPastDate, want: http.StatusBadRequest},
		{name: "not whole hour", err: booking.ErrNotWholeHour, want: http.StatusBadRequest},
		{name: "start in past", err: booking.ErrStartInPast, want: http.StatusBadRequest},
		{name: "end before start", err: booking.ErrEndBeforeStart, want: http.StatusBadRequest},
		{name: "outside hours", err: booking.ErrOutsideHours, want: http.StatusBadRequest},
		{name: "no slot yet", err: booking.ErrNoSlot, want: http.StatusBadRequest},
		{name: "floor full", err: booking.ErrNoRoomAvailable, want: http.StatusConflict},
		{name: "already confirmed", err: booking.ErrAlreadyConfirmed, want: http.StatusConflict},
		{name: "foreign reservation", err: repository.ErrForbidden, want: http.StatusForbidden},
		{name: "missing reservation", err: sql.ErrNoRows, want: http.StatusNotFound},
		{name: "unknown error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, bookingError(c, tt.err))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
