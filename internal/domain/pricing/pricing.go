package pricing

import (
	"errors"

	"stayfinder/internal/domain/shared/money"
	"stayfinder/internal/domain/stay"
)

var (
	ErrInvalidRate   = errors.New("pricing: nightly rate must be positive")
	ErrInvalidGuests = errors.New("pricing: guest count must be positive")
)

// Inputs is everything the stay price depends on. Compute is re-run whenever
// any field changes.
type Inputs struct {
	NightlyRate money.Money
	Guests      int
	Interval    stay.Interval
}

// Validate checks the static inputs; the interval is always acceptable.
func (in Inputs) Validate() error {
	if !in.NightlyRate.IsPositive() {
		return ErrInvalidRate
	}
	if in.Guests <= 0 {
		return ErrInvalidGuests
	}
	return nil
}

// Result is the derived price for the current inputs. Bookable is the single
// gate for progressing to checkout; it is never inferred from Total.
type Result struct {
	Nights   int
	Total    money.Money
	Bookable bool
}

// Compute derives the stay price. It is pure and total: an incomplete or
// zero-length interval degrades to the per-guest per-night baseline with
// Bookable false instead of failing.
func Compute(in Inputs) Result {
	baseline := Result{
		Nights:   0,
		Total:    in.NightlyRate.Multiply(int64(in.Guests)),
		Bookable: false,
	}

	if !in.Interval.IsComplete() {
		return baseline
	}
	nights := in.Interval.Nights()
	if nights <= 0 {
		return baseline
	}

	return Result{
		Nights:   nights,
		Total:    in.NightlyRate.Multiply(int64(nights)).Multiply(int64(in.Guests)),
		Bookable: true,
	}
}
