package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain/caldate"
	"stayfinder/internal/domain/pricing"
	"stayfinder/internal/domain/shared/money"
	"stayfinder/internal/domain/stay"
)

func bookableFixture() (pricing.Result, stay.Interval) {
	interval := stay.NewInterval(
		caldate.New(2025, time.March, 1),
		caldate.New(2025, time.March, 4),
	)
	result := pricing.Compute(pricing.Inputs{
		NightlyRate: money.USD(10000),
		Guests:      2,
		Interval:    interval,
	})
	return result, interval
}

func TestNewDraftFreezesComputation(t *testing.T) {
	result, interval := bookableFixture()
	now := time.Date(2025, time.February, 20, 12, 0, 0, 0, time.UTC)

	draft, err := NewDraft("listing-1", result, interval, 2, money.USD(10000), now)
	require.NoError(t, err)

	assert.Equal(t, "listing-1", draft.ListingID)
	assert.Equal(t, caldate.New(2025, time.March, 1), draft.CheckIn)
	assert.Equal(t, caldate.New(2025, time.March, 4), draft.CheckOut)
	assert.Equal(t, 3, draft.Nights)
	assert.Equal(t, 2, draft.Guests)
	assert.Equal(t, money.USD(60000), draft.Total)
	assert.Equal(t, now, draft.CreatedAt)
}

func TestNewDraftRejectsNotBookable(t *testing.T) {
	_, err := NewDraft("listing-1", pricing.Result{Bookable: false}, stay.Interval{}, 2, money.USD(10000), time.Now())
	assert.ErrorIs(t, err, ErrNotBookable)
}

func TestNewDraftRejectsIncompleteInterval(t *testing.T) {
	start := caldate.New(2025, time.March, 1)
	pending := stay.Interval{Start: &start}

	_, err := NewDraft("listing-1", pricing.Result{Nights: 3, Bookable: true}, pending, 2, money.USD(10000), time.Now())
	assert.ErrorIs(t, err, ErrNotBookable)
}

func TestNewDraftRequiresListing(t *testing.T) {
	result, interval := bookableFixture()
	_, err := NewDraft("", result, interval, 2, money.USD(10000), time.Now())
	assert.Error(t, err)
}

func TestDraftUnaffectedByLaterSelectorEdits(t *testing.T) {
	selector := stay.NewSelector(stay.Month{Year: 2025, Month: time.March})
	selector.SelectDay(1)
	emitted, _ := selector.SelectDay(4)
	result := pricing.Compute(pricing.Inputs{NightlyRate: money.USD(10000), Guests: 2, Interval: emitted})

	draft, err := NewDraft("listing-1", result, emitted, 2, money.USD(10000), time.Now())
	require.NoError(t, err)

	selector.SelectDay(20)
	selector.SelectDay(25)
	assert.Equal(t, caldate.New(2025, time.March, 1), draft.CheckIn)
	assert.Equal(t, caldate.New(2025, time.March, 4), draft.CheckOut)
}

func TestConfirmCarriesDraftFacts(t *testing.T) {
	result, interval := bookableFixture()
	draft, err := NewDraft("listing-1", result, interval, 2, money.USD(10000), time.Now())
	require.NoError(t, err)

	confirmation := draft.Confirm("BK12345")
	assert.Equal(t, "BK12345", confirmation.Reference)
	assert.Equal(t, draft.CheckIn, confirmation.CheckIn)
	assert.Equal(t, draft.CheckOut, confirmation.CheckOut)
	assert.Equal(t, 2, confirmation.Guests)
	assert.Equal(t, money.USD(60000), confirmation.Total)
}

func TestPayloadShape(t *testing.T) {
	result, interval := bookableFixture()
	draft, err := NewDraft("listing-1", result, interval, 2, money.USD(10000), time.Now())
	require.NoError(t, err)

	payload := draft.Payload("guest-42")
	assert.Equal(t, "listing-1", payload.ListingID)
	assert.Equal(t, "guest-42", payload.GuestID)
	assert.Equal(t, "2025-03-01T00:00:00Z", payload.CheckIn)
	assert.Equal(t, "2025-03-04T00:00:00Z", payload.CheckOut)
	assert.Equal(t, 2, payload.Guests)
	assert.Equal(t, float64(600), payload.TotalPrice, "wire price is decimal dollars")
}
