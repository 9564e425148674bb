package dto

import (
	"fmt"

	"stayfinder/internal/app/session"
	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/caldate"
	"stayfinder/internal/domain/listings"
	"stayfinder/internal/domain/pricing"
	"stayfinder/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

type ListingSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	NightlyRate MoneyDTO `json:"nightly_rate"`
	Location    string   `json:"location,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	MaxGuests   int      `json:"max_guests,omitempty"`
}

type QuoteView struct {
	Nights   int      `json:"nights"`
	Total    MoneyDTO `json:"total"`
	Bookable bool     `json:"bookable"`
	// Summary is the "3 nights for 2 guests" line; empty until bookable.
	Summary string `json:"summary,omitempty"`
}

type DraftView struct {
	ListingID   string   `json:"listing_id"`
	CheckIn     string   `json:"check_in"`
	CheckOut    string   `json:"check_out"`
	Nights      int      `json:"nights"`
	Guests      int      `json:"guests"`
	NightlyRate MoneyDTO `json:"nightly_rate"`
	Total       MoneyDTO `json:"total"`
}

type ConfirmationView struct {
	Reference string `json:"reference"`
	CheckIn   string `json:"check_in,omitempty"`
	CheckOut  string `json:"check_out,omitempty"`
	Total     string `json:"total,omitempty"`
}

type SessionView struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Listing      ListingSummary    `json:"listing"`
	Guests       int               `json:"guests"`
	Selection    string            `json:"selection"`
	CheckIn      string            `json:"check_in,omitempty"`
	CheckOut     string            `json:"check_out,omitempty"`
	Quote        QuoteView         `json:"quote"`
	Draft        *DraftView        `json:"draft,omitempty"`
	Confirmation *ConfirmationView `json:"confirmation,omitempty"`
}

type CatalogView struct {
	Listings   []ListingSummary `json:"listings"`
	TotalCount int              `json:"totalCount"`
	HasMore    bool             `json:"hasMore"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
		Display:  value.Display(),
	}
}

func MapListing(listing listings.Listing) ListingSummary {
	return ListingSummary{
		ID:          listing.ID,
		Title:       listing.Title,
		NightlyRate: MapMoney(listing.NightlyRate),
		Location:    listing.Location,
		ImageURL:    listing.ImageURL,
		MaxGuests:   listing.MaxGuests,
	}
}

func MapCatalog(page listings.CatalogPage, query listings.CatalogQuery) CatalogView {
	view := CatalogView{
		TotalCount: page.TotalCount,
		HasMore:    page.HasMore(query),
		Listings:   make([]ListingSummary, 0, len(page.Listings)),
	}
	for _, listing := range page.Listings {
		view.Listings = append(view.Listings, MapListing(listing))
	}
	return view
}

func MapQuote(result pricing.Result, guests int) QuoteView {
	view := QuoteView{
		Nights:   result.Nights,
		Total:    MapMoney(result.Total),
		Bookable: result.Bookable,
	}
	if result.Bookable {
		view.Summary = fmt.Sprintf("%d night%s for %d guest%s",
			result.Nights, plural(result.Nights), guests, plural(guests))
	}
	return view
}

func MapDraft(draft booking.Draft) DraftView {
	return DraftView{
		ListingID:   draft.ListingID,
		CheckIn:     draft.CheckIn.Format(),
		CheckOut:    draft.CheckOut.Format(),
		Nights:      draft.Nights,
		Guests:      draft.Guests,
		NightlyRate: MapMoney(draft.NightlyRate),
		Total:       MapMoney(draft.Total),
	}
}

func MapSession(sess *session.Session) SessionView {
	view := SessionView{
		ID:        sess.ID,
		Status:    string(sess.Status),
		Listing:   MapListing(sess.Listing),
		Guests:    sess.Guests,
		Selection: sess.Selector.Selection().Summary(),
		Quote:     MapQuote(sess.Quote(), sess.Guests),
	}
	if sess.Emitted.IsComplete() {
		view.CheckIn = formatDate(*sess.Emitted.Start)
		view.CheckOut = formatDate(*sess.Emitted.End)
	}
	if sess.Draft != nil {
		draft := MapDraft(*sess.Draft)
		view.Draft = &draft
	}
	if sess.Confirmation != nil {
		confirmation := ConfirmationView{
			Reference: sess.Confirmation.Reference,
			CheckIn:   sess.Confirmation.CheckIn.Format(),
			CheckOut:  sess.Confirmation.CheckOut.Format(),
			Total:     sess.Confirmation.Total.Display(),
		}
		view.Confirmation = &confirmation
	}
	return view
}

func formatDate(d caldate.Date) string {
	return d.Format()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
