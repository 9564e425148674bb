package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"stayfinder/internal/app/policies"
	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/caldate"
	"stayfinder/internal/domain/stay"
)

// Service runs the checkout flow: open a session against a listing, feed
// calendar clicks and form edits into it, freeze a draft and submit it.
// Every mutation on a given session runs to completion before the next one
// starts.
type Service struct {
	Store    Store
	Listings policies.ListingPort
	Bookings policies.BookingPort
	Identity policies.IdentityPort
	Logger   *slog.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires a service over its collaborators.
func NewService(store Store, listings policies.ListingPort, bookings policies.BookingPort, identity policies.IdentityPort, logger *slog.Logger) *Service {
	return &Service{
		Store:    store,
		Listings: listings,
		Bookings: bookings,
		Identity: identity,
		Logger:   logger,
		Now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Create opens a checkout session for a listing, snapshotting its nightly
// rate and starting the calendar on the current month.
func (s *Service) Create(ctx context.Context, listingID string) (*Session, error) {
	listing, err := s.Listings.ByID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("session: resolve listing: %w", err)
	}
	if err := listing.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	today := caldate.FromTime(now)
	sess := &Session{
		ID:        uuid.NewString(),
		Listing:   *listing,
		Guests:    1,
		Selector:  stay.NewSelector(stay.Month{Year: today.Year, Month: today.Month}),
		Status:    StatusOpen,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session as stored.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.Store.Get(ctx, id)
}

// ClickDay applies one calendar click. Completing a pair replaces the
// session's consumer copy of the interval; a first click of a new pair
// leaves the previous emitted interval (and its quote) in place, so the
// price panel keeps showing the last completed range.
func (s *Service) ClickDay(ctx context.Context, id string, day int) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		if emitted, ok := sess.Selector.SelectDay(day); ok {
			sess.Emitted = emitted
		}
		return nil
	})
}

// Navigate shifts the visible month by ±1.
func (s *Service) Navigate(ctx context.Context, id string, direction int) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		sess.Selector.NavigateMonth(direction)
		return nil
	})
}

// ClearDates resets both the selector and the consumer copy.
func (s *Service) ClearDates(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		sess.Selector.Clear()
		sess.Emitted = stay.Interval{}
		return nil
	})
}

// SetGuests updates the guest count feeding the price derivation.
func (s *Service) SetGuests(ctx context.Context, id string, guests int) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		inputs := sess.PricingInputs()
		inputs.Guests = guests
		if err := inputs.Validate(); err != nil {
			return err
		}
		sess.Guests = guests
		return nil
	})
}

// Grid renders the visible month for the session's selection.
func (s *Service) Grid(ctx context.Context, id string) (stay.MonthGrid, error) {
	sess, err := s.Store.Get(ctx, id)
	if err != nil {
		return stay.MonthGrid{}, err
	}
	return sess.Selector.Grid(caldate.FromTime(s.now())), nil
}

// BuildDraft freezes the current computation into an immutable draft. A
// non-bookable state is a user-facing precondition failure, not a crash.
func (s *Service) BuildDraft(ctx context.Context, id string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		result := sess.Quote()
		draft, err := booking.NewDraft(sess.Listing.ID, result, sess.Emitted, sess.Guests, sess.Listing.NightlyRate, s.now())
		if err != nil {
			return err
		}
		sess.Draft = &draft
		return nil
	})
}

// UpdatePayment writes one normalized payment field.
func (s *Service) UpdatePayment(ctx context.Context, id, field, value string) (*Session, error) {
	return s.update(ctx, id, func(sess *Session) error {
		sess.Payment.Set(field, value)
		return nil
	})
}

// Submit validates the payment form, resolves the guest identity from the
// presented credential and sends the draft to the booking endpoint. While a
// submission is outstanding the session rejects further submits; there is no
// cancellation, only settlement. On failure the draft and payment details
// are preserved so retry needs no re-entry.
func (s *Service) Submit(ctx context.Context, id, credential string) (*Session, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sess.Status {
	case StatusSubmitting:
		return nil, ErrSubmitInFlight
	case StatusBooked:
		return nil, ErrAlreadyBooked
	}
	if sess.Draft == nil {
		return nil, ErrNoDraft
	}
	if err := sess.Payment.Validate(); err != nil {
		return nil, err
	}

	if credential == "" {
		return nil, ErrNotAuthenticated
	}
	guestID, err := s.Identity.Resolve(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	sess.Status = StatusSubmitting
	sess.UpdatedAt = s.now().UTC()
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}

	confirmation, err := s.Bookings.Submit(ctx, sess.Draft.Payload(guestID))
	if err != nil {
		sess.Status = StatusFailed
		sess.UpdatedAt = s.now().UTC()
		if saveErr := s.Store.Save(ctx, sess); saveErr != nil && s.Logger != nil {
			s.Logger.Error("session save after failed submit", "session_id", id, "error", saveErr)
		}
		if s.Logger != nil {
			s.Logger.Warn("booking submission failed", "session_id", id, "listing_id", sess.Listing.ID, "error", err)
		}
		return nil, fmt.Errorf("session: submission failed: %w", err)
	}

	// The draft is consumed exactly once; payment details are discarded.
	sess.Status = StatusBooked
	confirmed := sess.Draft.Confirm(confirmation.Reference)
	sess.Confirmation = &confirmed
	sess.Draft = nil
	sess.Payment.Reset()
	sess.UpdatedAt = s.now().UTC()
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("booking confirmed", "session_id", id, "listing_id", sess.Listing.ID, "reference", confirmation.Reference)
	}
	return sess, nil
}

func (s *Service) update(ctx context.Context, id string, mutate func(*Session) error) (*Session, error) {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(sess); err != nil {
		return nil, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.Store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
