package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// Function-field fakes for the store interfaces.  Unset fields return
// zero values, so each test only wires the calls it cares about.

type reservationStoreMock struct {
	createFn         func(ctx context.Context, username string, floor int, room string) (uint64, error)
	getByIDFn        func(ctx context.Context, id uint64) (model.Reservation, error)
	getByIDForUserFn func(ctx context.Context, id uint64, username string) (model.Reservation, error)
	confirmFn        func(ctx context.Context, id uint64, paymentMethod string) error
	sweepExpiredFn   func(ctx context.Context, pendingBefore, now time.Time) (int64, int64, error)
	withSlotTxFn     func(ctx context.Context, fn func(SlotTx) error) error
}

func (m *reservationStoreMock) Create(ctx context.Context, username string, floor int, room string) (uint64, error) {
	if m.createFn == nil {
		return 0, nil
	}
	return m.createFn(ctx, username, floor, room)
}

func (m *reservationStoreMock) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	if m.getByIDFn == nil {
		return model.Reservation{ID: id}, nil
	}
	return m.getByIDFn(ctx, id)
}

func (m *reservationStoreMock) GetByIDForUser(ctx context.Context, id uint64, username string) (model.Reservation, error) {
	if m.getByIDForUserFn == nil {
		return model.Reservation{ID: id, Username: username}, nil
	}
	return m.getByIDForUserFn(ctx, id, username)
}

func (m *reservationStoreMock) Confirm(ctx context.Context, id uint64, paymentMethod string) error {
	if m.confirmFn == nil {
		return nil
	}
	return m.confirmFn(ctx, id, paymentMethod)
}

func (m *reservationStoreMock) SweepExpired(ctx context.Context, pendingBefore, now time.Time) (int64, int64, error) {
	if m.sweepExpiredFn == nil {
		return 0, 0, nil
	}
	return m.sweepExpiredFn(ctx, pendingBefore, now)
}

// WithSlotTx runs fn against a slotTxMock by default, mirroring the
// real store's pass-through of the callback error.
func (m *reservationStoreMock) WithSlotTx(ctx context.Context, fn func(SlotTx) error) error {
	if m.withSlotTxFn == nil {
		return fn(&slotTxMock{})
	}
	return m.withSlotTxFn(ctx, fn)
}

type slotTxMock struct {
	hasConflictFn func(ctx context.Context, room string, date, start, end time.Time) (bool, error)
	assignSlotFn  func(ctx context.Context, id uint64, room string, date, start, end time.Time, durationHours int) error
}

func (m *slotTxMock) HasConflict(ctx context.Context, room string, date, start, end time.Time) (bool, error) {
	if m.hasConflictFn == nil {
		return false, nil
	}
	return m.hasConflictFn(ctx, room, date, start, end)
}

func (m *slotTxMock) AssignSlot(ctx context.Context, id uint64, room string, date, start, end time.Time, durationHours int) error {
	if m.assignSlotFn == nil {
		return nil
	}
	return m.assignSlotFn(ctx, id, room, date, start, end, durationHours)
}

type membershipStoreMock struct {
	activeByUserFn func(ctx context.Context, userID uint64, now time.Time) (model.Membership, error)
}

func (m *membershipStoreMock) ActiveByUser(ctx context.Context, userID uint64, now time.Time) (model.Membership, error) {
	if m.activeByUserFn == nil {
		return model.Membership{}, sql.ErrNoRows
	}
	return m.activeByUserFn(ctx, userID, now)
}

func newTestService(res ReservationStore, mem MembershipStore, at time.Time) *Service {
	s := NewService(res, mem, 1)
	s.now = func() time.Time { return at }
	return s
}

func TestSweepExpiredUsesThreeMinuteCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	var gotBefore, gotNow time.Time
	res := &reservationStoreMock{
		sweepExpiredFn: func(_ context.Context, pendingBefore, sweepNow time.Time) (int64, int64, error) {
			gotBefore, gotNow = pendingBefore, sweepNow
			return 2, 1, nil
		},
	}
	s := newTestService(res, &membershipStoreMock{}, now)

	pending, confirmed, err := s.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
	assert.Equal(t, int64(1), confirmed)
	assert.True(t, gotBefore.Equal(now.Add(-3*time.Minute)))
	assert.True(t, gotNow.Equal(now))
}

// sweepStore implements the expiry rules over an in-memory slice so
// the end-to-end sweep behavior is observable: pending rows created
// before the cutoff and confirmed rows already ended disappear.
type sweepStore struct {
	reservationStoreMock
	rows []model.Reservation
}

func (s *sweepStore) SweepExpired(_ context.Context, pendingBefore, now time.Time) (int64, int64, error) {
	var pending, confirmed int64
	kept := s.rows[:0]
	for _, r := range s.rows {
		switch {
		case (r.Status == model.StatusPendingNoSlot || r.Status == model.StatusPendingSlotSet) && r.CreatedAt.Before(pendingBefore):
			pending++
		case r.Status == model.StatusConfirmed && r.EndTime != nil && r.EndTime.Before(now):
			confirmed++
		default:
			kept = append(kept, r)
		}
	}
	s.rows = kept
	return pending, confirmed, nil
}

func (s *sweepStore) has(id uint64) bool {
	for _, r := range s.rows {
		if r.ID == id {
			return true
		}
	}
	return false
}

func TestSweepRemovesStalePendingAndFinishedReservations(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	endedAt := createdAt.Add(-time.Hour)
	futureEnd := createdAt.Add(6 * time.Hour)
	store := &sweepStore{rows: []model.Reservation{
		{ID: 1, Status: model.StatusPendingNoSlot, CreatedAt: createdAt},
		{ID: 2, Status: model.StatusPendingSlotSet, CreatedAt: createdAt},
		{ID: 3, Status: model.StatusConfirmed, CreatedAt: createdAt, EndTime: &endedAt},
		{ID: 4, Status: model.StatusConfirmed, CreatedAt: createdAt, EndTime: &futureEnd},
	}}

	// One second shy of the TTL: nothing pending is reclaimed yet.
	s := newTestService(store, &membershipStoreMock{}, createdAt.Add(PendingTTL-time.Second))
	pending, _, err := s.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.True(t, store.has(1))
	assert.True(t, store.has(2))

	// Past the TTL both pending rows go; the finished confirmed row
	// went on the first pass already.
	s = newTestService(store, &membershipStoreMock{}, createdAt.Add(PendingTTL+time.Second))
	pending, _, err = s.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)
	assert.False(t, store.has(1))
	assert.False(t, store.has(2))
	assert.False(t, store.has(3))
	assert.True(t, store.has(4))
}

func TestCreateProvisionalSweepsThenBooks(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	var sweeps int
	var created model.Reservation
	res := &reservationStoreMock{
		sweepExpiredFn: func(context.Context, time.Time, time.Time) (int64, int64, error) {
			sweeps++
			return 0, 0, nil
		},
		createFn: func(_ context.Context, username string, floor int, room string) (uint64, error) {
			require.Equal(t, 1, sweeps, "sweep must run before the insert")
			created = model.Reservation{ID: 7, Username: username, Floor: floor, Room: room, Status: model.StatusPendingNoSlot}
			return 7, nil
		},
		getByIDFn: func(_ context.Context, id uint64) (model.Reservation, error) {
			require.Equal(t, uint64(7), id)
			return created, nil
		},
	}
	s := newTestService(res, &membershipStoreMock{}, now)

	got, err := s.CreateProvisional(context.Background(), "dina", 2)
	require.NoError(t, err)
	assert.Equal(t, "dina", got.Username)
	assert.Equal(t, 2, got.Floor)
	assert.Contains(t, RoomPool(2), got.Room)
	assert.Equal(t, model.StatusPendingNoSlot, got.Status)
}

func TestCreateProvisionalRejectsBadHeadCount(t *testing.T) {
	res := &reservationStoreMock{
		createFn: func(context.Context, string, int, string) (uint64, error) {
			t.Fatal("no reservation may be created for an unsupported head count")
			return 0, nil
		},
	}
	s := newTestService(res, &membershipStoreMock{}, time.Now())

	_, err := s.CreateProvisional(context.Background(), "dina", 3)
	assert.ErrorIs(t, err, ErrBadCapacity)
}

func TestConfirmSlotAssignsFirstFreeRoom(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	start, end := clock(14, 0), clock(16, 0)

	var assignedRoom string
	var assignedHours int
	res := &reservationStoreMock{
		getByIDForUserFn: func(_ context.Context, id uint64, username string) (model.Reservation, error) {
			return model.Reservation{ID: id, Username: username, Floor: 2, Room: "203", Status: model.StatusPendingNoSlot}, nil
		},
		getByIDFn: func(_ context.Context, id uint64) (model.Reservation, error) {
			return model.Reservation{ID: id, Floor: 2, Room: assignedRoom, Status: model.StatusPendingSlotSet}, nil
		},
	}
	res.withSlotTxFn = func(_ context.Context, fn func(SlotTx) error) error {
		return fn(&slotTxMock{
			hasConflictFn: func(_ context.Context, room string, _, _, _ time.Time) (bool, error) {
				return room != "204", nil // every room but 204 is taken
			},
			assignSlotFn: func(_ context.Context, _ uint64, room string, _, _, _ time.Time, durationHours int) error {
				assignedRoom, assignedHours = room, durationHours
				return nil
			},
		})
	}
	s := newTestService(res, &membershipStoreMock{}, now)

	got, err := s.ConfirmSlot(context.Background(), 7, "dina", date, start, end)
	require.NoError(t, err)
	assert.Equal(t, "204", assignedRoom)
	assert.Equal(t, 2, assignedHours)
	assert.Equal(t, "204", got.Room)
	assert.Equal(t, model.StatusPendingSlotSet, got.Status)
}

func TestConfirmSlotAllRoomsBusy(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	res := &reservationStoreMock{
		getByIDForUserFn: func(_ context.Context, id uint64, username string) (model.Reservation, error) {
			return model.Reservation{ID: id, Username: username, Floor: 1, Status: model.StatusPendingNoSlot}, nil
		},
	}
	res.withSlotTxFn = func(_ context.Context, fn func(SlotTx) error) error {
		return fn(&slotTxMock{
			hasConflictFn: func(context.Context, string, time.Time, time.Time, time.Time) (bool, error) {
				return true, nil
			},
			assignSlotFn: func(context.Context, uint64, string, time.Time, time.Time, time.Time, int) error {
				t.Fatal("no slot may be written when every room conflicts")
				return nil
			},
		})
	}
	s := newTestService(res, &membershipStoreMock{}, now)

	_, err := s.ConfirmSlot(context.Background(), 7, "dina", date, clock(14, 0), clock(15, 0))
	assert.ErrorIs(t, err, ErrNoRoomAvailable)
}

func TestConfirmSlotRejectsConfirmedReservation(t *testing.T) {
	res := &reservationStoreMock{
		getByIDForUserFn: func(_ context.Context, id uint64, username string) (model.Reservation, error) {
			return model.Reservation{ID: id, Username: username, Floor: 1, Status: model.StatusConfirmed}, nil
		},
		withSlotTxFn: func(context.Context, func(SlotTx) error) error {
			t.Fatal("a confirmed reservation must not reach the slot transaction")
			return nil
		},
	}
	s := newTestService(res, &membershipStoreMock{}, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC))

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	_, err := s.ConfirmSlot(context.Background(), 7, "dina", date, clock(14, 0), clock(15, 0))
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirmSlotValidatesWindow(t *testing.T) {
	res := &reservationStoreMock{
		getByIDForUserFn: func(_ context.Context, id uint64, username string) (model.Reservation, error) {
			return model.Reservation{ID: id, Username: username, Floor: 1, Status: model.StatusPendingNoSlot}, nil
		},
		withSlotTxFn: func(context.Context, func(SlotTx) error) error {
			t.Fatal("an invalid window must not reach the slot transaction")
			return nil
		},
	}
	s := newTestService(res, &membershipStoreMock{}, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC))

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	_, err := s.ConfirmSlot(context.Background(), 7, "dina", date, clock(16, 0), clock(14, 0))
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func paymentStore(status string, confirmed *string) *reservationStoreMock {
	return &reservationStoreMock{
		getByIDForUserFn: func(_ context.Context, id uint64, username string) (model.Reservation, error) {
			return model.Reservation{ID: id, Username: username, Floor: 3, DurationHours: 2, Status: status}, nil
		},
		confirmFn: func(_ context.Context, _ uint64, paymentMethod string) error {
			*confirmed = paymentMethod
			return nil
		},
		getByIDFn: func(_ context.Context, id uint64) (model.Reservation, error) {
			return model.Reservation{ID: id, Floor: 3, DurationHours: 2, Status: model.StatusConfirmed}, nil
		},
	}
}

func TestRecordPaymentAppliesActiveMembershipDiscount(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	var confirmed string
	res := paymentStore(model.StatusPendingSlotSet, &confirmed)
	mem := &membershipStoreMock{
		activeByUserFn: func(context.Context, uint64, time.Time) (model.Membership, error) {
			return model.Membership{Tier: model.TierDeluxe, IsActive: true}, nil
		},
	}
	s := newTestService(res, mem, now)

	total, got, err := s.RecordPayment(context.Background(), 7, model.User{ID: 42, Username: "dina"}, "qris")
	require.NoError(t, err)
	assert.Equal(t, 135000, total) // 75000/hr x 2h x 0.90
	assert.Equal(t, "qris", confirmed)
	assert.Equal(t, model.StatusConfirmed, got.Status)
}

func TestRecordPaymentWithoutMembershipChargesBase(t *testing.T) {
	var confirmed string
	res := paymentStore(model.StatusPendingSlotSet, &confirmed)
	s := newTestService(res, &membershipStoreMock{}, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC))

	total, _, err := s.RecordPayment(context.Background(), 7, model.User{ID: 42, Username: "dina"}, "cash")
	require.NoError(t, err)
	assert.Equal(t, 150000, total)
	assert.Equal(t, "cash", confirmed)
}

func TestRecordPaymentMembershipLookupFailure(t *testing.T) {
	var confirmed string
	res := paymentStore(model.StatusPendingSlotSet, &confirmed)
	lookupErr := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
	mem := &membershipStoreMock{
		activeByUserFn: func(context.Context, uint64, time.Time) (model.Membership, error) {
			return model.Membership{}, lookupErr
		},
	}
	s := newTestService(res, mem, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC))

	_, _, err := s.RecordPayment(context.Background(), 7, model.User{ID: 42, Username: "dina"}, "cash")
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, confirmed, "a failed membership lookup must not confirm at the undiscounted price")
}

func TestRecordPaymentRequiresSlot(t *testing.T) {
	var confirmed string
	res := paymentStore(model.StatusPendingNoSlot, &confirmed)
	s := newTestService(res, &membershipStoreMock{}, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC))

	_, _, err := s.RecordPayment(context.Background(), 7, model.User{ID: 42, Username: "dina"}, "cash")
	assert.ErrorIs(t, err, ErrNoSlot)
	assert.Empty(t, confirmed)
}
