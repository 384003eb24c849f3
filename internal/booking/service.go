package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/MarcoBenedictus/GameSuite/internal/model"
)

// ReservationStore is the persistence surface the wizard drives.
// *repository.ReservationRepo implements it against MySQL; tests swap
// in an in-memory implementation.
type ReservationStore interface {
	Create(ctx context.Context, username string, floor int, room string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	GetByIDForUser(ctx context.Context, id uint64, username string) (model.Reservation, error)
	Confirm(ctx context.Context, id uint64, paymentMethod string) error
	SweepExpired(ctx context.Context, pendingBefore, now time.Time) (int64, int64, error)
	// WithSlotTx runs fn inside one transaction; the slot write commits
	// only when fn returns nil.
	WithSlotTx(ctx context.Context, fn func(SlotTx) error) error
}

// SlotTx is the transactional view used while assigning a time slot.
// Conflict checks lock the rows they match, so a room observed free
// here stays free until the transaction ends.
type SlotTx interface {
	HasConflict(ctx context.Context, room string, date, start, end time.Time) (bool, error)
	AssignSlot(ctx context.Context, id uint64, room string, date, start, end time.Time, durationHours int) error
}

// MembershipStore resolves the membership in force for a user at a
// point in time.  Lookups on users without one return sql.ErrNoRows.
type MembershipStore interface {
	ActiveByUser(ctx context.Context, userID uint64, now time.Time) (model.Membership, error)
}

// Service sequences the reservation wizard: provisional room pick,
// slot confirmation with conflict resolution, payment and the expiry
// sweep.  State between steps lives on the reservation row itself, so
// every operation re-reads the persisted record and validates the
// stored status before advancing it.
type Service struct {
	reservations ReservationStore
	memberships  MembershipStore

	mu  sync.Mutex // guards rng; *rand.Rand is not safe for concurrent use
	rng *rand.Rand
	now func() time.Time
}

// NewService builds a Service.  The seed feeds the room allocator's
// random source; production wiring passes the clock, tests pass a
// fixed seed for deterministic allocation.
func NewService(res ReservationStore, mem MembershipStore, seed int64) *Service {
	return &Service{
		reservations: res,
		memberships:  mem,
		rng:          rand.New(rand.NewSource(seed)),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) randomRoom(floor int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RandomRoom(s.rng, floor)
}

func (s *Service) shuffledPool(floor int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ShuffledPool(s.rng, floor)
}

// CreateProvisional is phase 1 of the wizard.  It sweeps expired
// reservations first (the sweep runs on wizard entry, not on a timer),
// maps the head count to a floor, picks a provisional room at random
// and persists a PENDING_NO_SLOT reservation.
func (s *Service) CreateProvisional(ctx context.Context, username string, people int) (model.Reservation, error) {
	if p, c, err := s.SweepExpired(ctx); err != nil {
		log.Printf("booking: sweep on wizard entry failed: %v", err)
	} else if p+c > 0 {
		log.Printf("booking: sweep removed %d pending and %d finished reservations", p, c)
	}

	floor, err := FloorForCapacity(people)
	if err != nil {
		return model.Reservation{}, err
	}
	room := s.randomRoom(floor)
	id, err := s.reservations.Create(ctx, username, floor, room)
	if err != nil {
		return model.Reservation{}, err
	}
	return s.reservations.GetByID(ctx, id)
}

// ConfirmSlot is phase 2.  It validates the requested window, then
// walks the floor's rooms in random order and assigns the first one
// with no overlapping PENDING_SLOT_SET or CONFIRMED booking.  The
// conflict scan and the slot write share one transaction with the
// conflicting range locked, so two concurrent confirmations cannot
// both take the last free room.  When every room is busy the
// transaction rolls back and nothing is mutated.
func (s *Service) ConfirmSlot(ctx context.Context, id uint64, username string, date, start, end time.Time) (model.Reservation, error) {
	res, err := s.reservations.GetByIDForUser(ctx, id, username)
	if err != nil {
		return model.Reservation{}, err
	}
	if res.Status == model.StatusConfirmed {
		return model.Reservation{}, ErrAlreadyConfirmed
	}
	durationHours, err := ValidateSlot(s.now(), date, start, end)
	if err != nil {
		return model.Reservation{}, err
	}

	err = s.reservations.WithSlotTx(ctx, func(tx SlotTx) error {
		assigned, err := FirstFreeRoom(s.shuffledPool(res.Floor), func(room string) (bool, error) {
			return tx.HasConflict(ctx, room, date, start, end)
		})
		if err != nil {
			return err
		}
		return tx.AssignSlot(ctx, id, assigned, date, start, end, durationHours)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return s.reservations.GetByID(ctx, id)
}

// RecordPayment is the final step.  It requires a PENDING_SLOT_SET
// reservation, prices it from the floor's capacity, the stored
// duration and the user's membership in force right now, stores the
// payment method and confirms the booking.  Returns the total cost
// and the confirmed reservation.
func (s *Service) RecordPayment(ctx context.Context, id uint64, user model.User, paymentMethod string) (int, model.Reservation, error) {
	res, err := s.reservations.GetByIDForUser(ctx, id, user.Username)
	if err != nil {
		return 0, model.Reservation{}, err
	}
	if err := CheckPayable(res); err != nil {
		return 0, model.Reservation{}, err
	}

	// Only a confirmed "no membership" answer falls back to the base
	// rate; a lookup failure must not charge a member full price.
	tier := model.TierBasic
	switch m, err := s.memberships.ActiveByUser(ctx, user.ID, s.now()); {
	case err == nil:
		tier = m.Tier
	case errors.Is(err, sql.ErrNoRows):
	default:
		return 0, model.Reservation{}, err
	}
	total, err := Price(CapacityForFloor(res.Floor), res.DurationHours, tier)
	if err != nil {
		return 0, model.Reservation{}, err
	}
	if err := s.reservations.Confirm(ctx, id, paymentMethod); err != nil {
		return 0, model.Reservation{}, err
	}
	confirmed, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return 0, model.Reservation{}, err
	}
	return total, confirmed, nil
}

// SweepExpired removes abandoned pending reservations older than
// PendingTTL and confirmed reservations whose end time has passed.
// Returns the deleted counts (pending, confirmed).  Overlapping sweeps
// are harmless; deleting an already-deleted row is a no-op.
func (s *Service) SweepExpired(ctx context.Context) (int64, int64, error) {
	now := s.now()
	return s.reservations.SweepExpired(ctx, now.Add(-PendingTTL), now)
}
