package session

import (
	"context"
	"errors"
	"time"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/checkout"
	"stayfinder/internal/domain/listings"
	"stayfinder/internal/domain/pricing"
	"stayfinder/internal/domain/stay"
)

var (
	ErrSessionNotFound  = errors.New("session: not found")
	ErrNoDraft          = errors.New("session: no booking draft; start from the listing page")
	ErrSubmitInFlight   = errors.New("session: a submission is already in progress")
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrAlreadyBooked    = errors.New("session: booking already confirmed")
)

// Status tracks where a checkout session is in its lifecycle.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusSubmitting Status = "SUBMITTING"
	StatusFailed     Status = "FAILED"
	StatusBooked     Status = "BOOKED"
)

// Session is the single active checkout attempt for one listing. It owns the
// selector, the consumer copy of the emitted interval, the payment form and
// the frozen draft exclusively; nothing here is shared across sessions.
type Session struct {
	ID       string           `json:"id"`
	Listing  listings.Listing `json:"listing"`
	Guests   int              `json:"guests"`
	Selector *stay.Selector   `json:"selector"`

	// Emitted is the consumer's copy of the last completed interval. The
	// selector may move on to a new pending pair without touching it.
	Emitted stay.Interval `json:"emitted"`

	Payment      checkout.Form         `json:"payment"`
	Draft        *booking.Draft        `json:"draft,omitempty"`
	Confirmation *booking.Confirmation `json:"confirmation,omitempty"`
	Status       Status                `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// PricingInputs assembles the current derivation inputs for the calculator.
func (s *Session) PricingInputs() pricing.Inputs {
	return pricing.Inputs{
		NightlyRate: s.Listing.NightlyRate,
		Guests:      s.Guests,
		Interval:    s.Emitted.Copy(),
	}
}

// Quote recomputes the price from the current inputs.
func (s *Session) Quote() pricing.Result {
	return pricing.Compute(s.PricingInputs())
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// Stores hand out clones so a reader never observes another goroutine's
// in-progress mutation.
func (s *Session) Clone() *Session {
	out := *s
	if s.Selector != nil {
		out.Selector = s.Selector.Clone()
	}
	out.Emitted = s.Emitted.Copy()
	if s.Draft != nil {
		draft := *s.Draft
		out.Draft = &draft
	}
	if s.Confirmation != nil {
		confirmation := *s.Confirmation
		out.Confirmation = &confirmation
	}
	return &out
}

// Store persists sessions for the lifetime of a checkout attempt.
type Store interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
