package booking

import (
	"errors"
	"time"

	"stayfinder/internal/domain/caldate"
	"stayfinder/internal/domain/pricing"
	"stayfinder/internal/domain/shared/money"
	"stayfinder/internal/domain/stay"
)

var (
	// ErrNotBookable is a user-facing precondition failure, surfaced as a
	// blocking message, never an internal error.
	ErrNotBookable = errors.New("booking: select check-in and check-out dates")
)

// Draft is the frozen, self-contained snapshot handed from the pricing step
// to checkout. It is never mutated after creation and is consumed exactly
// once by a successful submission.
type Draft struct {
	ListingID   string       `json:"listing_id"`
	CheckIn     caldate.Date `json:"check_in"`
	CheckOut    caldate.Date `json:"check_out"`
	Nights      int          `json:"nights"`
	Guests      int          `json:"guests"`
	NightlyRate money.Money  `json:"nightly_rate"`
	Total       money.Money  `json:"total"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewDraft freezes the current computation into a draft. The caller must
// hold a bookable pricing result for a complete interval; anything else
// returns ErrNotBookable and nothing is built.
func NewDraft(listingID string, result pricing.Result, interval stay.Interval, guests int, nightlyRate money.Money, now time.Time) (Draft, error) {
	if !result.Bookable || !interval.IsComplete() {
		return Draft{}, ErrNotBookable
	}
	if listingID == "" {
		return Draft{}, errors.New("booking: listing id required")
	}
	return Draft{
		ListingID:   listingID,
		CheckIn:     *interval.Start,
		CheckOut:    *interval.End,
		Nights:      result.Nights,
		Guests:      guests,
		NightlyRate: nightlyRate,
		Total:       result.Total,
		CreatedAt:   now.UTC(),
	}, nil
}

// Confirmation is the settled outcome of a successful submission. The stay
// facts are frozen from the consumed draft, so later session edits cannot
// change what was booked.
type Confirmation struct {
	Reference string       `json:"reference"`
	CheckIn   caldate.Date `json:"check_in"`
	CheckOut  caldate.Date `json:"check_out"`
	Guests    int          `json:"guests"`
	Total     money.Money  `json:"total"`
}

// Confirm consumes the draft into a confirmation under the given reference.
func (d Draft) Confirm(reference string) Confirmation {
	return Confirmation{
		Reference: reference,
		CheckIn:   d.CheckIn,
		CheckOut:  d.CheckOut,
		Guests:    d.Guests,
		Total:     d.Total,
	}
}

// SubmissionPayload is the wire shape the external booking endpoint accepts.
// The endpoint prices in decimal dollars, the unit its listing records use.
type SubmissionPayload struct {
	ListingID  string  `json:"listing"`
	GuestID    string  `json:"guest"`
	CheckIn    string  `json:"checkIn"`
	CheckOut   string  `json:"checkOut"`
	Guests     int     `json:"guests"`
	TotalPrice float64 `json:"totalPrice"`
}

// Payload maps the draft plus the resolved guest identity to the wire shape,
// check-in and check-out as ISO-8601 timestamps at UTC midnight.
func (d Draft) Payload(guestID string) SubmissionPayload {
	return SubmissionPayload{
		ListingID:  d.ListingID,
		GuestID:    guestID,
		CheckIn:    d.CheckIn.ISO(),
		CheckOut:   d.CheckOut.ISO(),
		Guests:     d.Guests,
		TotalPrice: float64(d.Total.Amount) / 100,
	}
}
