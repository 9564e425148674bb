package listings

import (
	"errors"

	"stayfinder/internal/domain/shared/money"
)

var (
	ErrListingNotFound = errors.New("listings: not found")
	ErrRateUnavailable = errors.New("listings: nightly rate unavailable")
)

// Listing is the slice of the remote listing record the booking flow
// consumes: the identity and the nightly rate, plus display fields carried
// through to the browse surface untouched.
type Listing struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	NightlyRate money.Money `json:"nightly_rate"`
	Location    string      `json:"location,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	MaxGuests   int         `json:"max_guests,omitempty"`
}

// Validate checks the fields the pricing engine depends on.
func (l Listing) Validate() error {
	if l.ID == "" {
		return ErrListingNotFound
	}
	if !l.NightlyRate.IsPositive() {
		return ErrRateUnavailable
	}
	return nil
}

// CatalogQuery is the browse filter set forwarded to the listing source.
type CatalogQuery struct {
	Location string
	CheckIn  string
	CheckOut string
	Guests   int
	Page     int
	Limit    int
}

// Normalized fills the paging defaults.
func (q CatalogQuery) Normalized() CatalogQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 12
	}
	return q
}

// CatalogPage is one page of browse results with the total for paging.
type CatalogPage struct {
	Listings   []Listing `json:"listings"`
	TotalCount int       `json:"totalCount"`
}

// HasMore reports whether another page exists after the given query.
func (p CatalogPage) HasMore(q CatalogQuery) bool {
	q = q.Normalized()
	return q.Page*q.Limit < p.TotalCount
}
