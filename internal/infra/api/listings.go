package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stayfinder/internal/app/policies"
	"stayfinder/internal/domain/listings"
	"stayfinder/internal/domain/shared/money"
)

// ListingClient reads the listing catalog from the remote listing source.
type ListingClient struct {
	Client  *http.Client
	BaseURL string
	Logger  *slog.Logger
}

type listingRecord struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	PricePerNight float64 `json:"pricePerNight"`
	Location      string  `json:"location"`
	ImageURL      string  `json:"imageUrl"`
	MaxGuests     int     `json:"maxGuests"`
}

type catalogResponse struct {
	Listings   []listingRecord `json:"listings"`
	TotalCount int             `json:"totalCount"`
}

// ByID fetches one listing; a 404 maps to listings.ErrListingNotFound.
func (c *ListingClient) ByID(ctx context.Context, id string) (*listings.Listing, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/api/listings/%s", strings.TrimRight(c.BaseURL, "/"), url.PathEscape(id))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("listing fetch failed", id, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, listings.ErrListingNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := statusError("listing source", resp)
		c.logError("listing source returned error", id, err)
		return nil, err
	}

	var record listingRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		c.logError("listing decode failed", id, err)
		return nil, err
	}
	listing := mapListing(record)
	return &listing, nil
}

// Search forwards the browse filters and paging to the listing source and
// returns one catalog page.
func (c *ListingClient) Search(ctx context.Context, query listings.CatalogQuery) (listings.CatalogPage, error) {
	var zero listings.CatalogPage
	if err := c.ready(); err != nil {
		return zero, err
	}
	query = query.Normalized()

	params := url.Values{}
	if query.Location != "" {
		params.Set("location", query.Location)
	}
	if query.CheckIn != "" {
		params.Set("checkIn", query.CheckIn)
	}
	if query.CheckOut != "" {
		params.Set("checkOut", query.CheckOut)
	}
	if query.Guests > 0 {
		params.Set("guests", strconv.Itoa(query.Guests))
	}
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("limit", strconv.Itoa(query.Limit))

	endpoint := fmt.Sprintf("%s/api/listings?%s", strings.TrimRight(c.BaseURL, "/"), params.Encode())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, err
	}

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("catalog fetch failed", "", err)
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		err := statusError("listing source", resp)
		c.logError("listing source returned error", "", err)
		return zero, err
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logError("catalog decode failed", "", err)
		return zero, err
	}

	page := listings.CatalogPage{TotalCount: payload.TotalCount}
	for _, record := range payload.Listings {
		page.Listings = append(page.Listings, mapListing(record))
	}
	return page, nil
}

func (c *ListingClient) ready() error {
	if c == nil || c.Client == nil {
		return errors.New("api: http client not configured")
	}
	if c.BaseURL == "" {
		return errors.New("api: listing base url not configured")
	}
	return nil
}

func (c *ListingClient) logError(msg, listingID string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error(msg, "listing_id", listingID, "error", err)
}

// mapListing converts the remote record, dollars to cents.
func mapListing(record listingRecord) listings.Listing {
	return listings.Listing{
		ID:          record.ID,
		Title:       record.Title,
		NightlyRate: money.USD(int64(math.Round(record.PricePerNight * 100))),
		Location:    record.Location,
		ImageURL:    record.ImageURL,
		MaxGuests:   record.MaxGuests,
	}
}

func statusError(source string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s returned status %d: %s", source, resp.StatusCode, string(snippet))
}

var _ policies.ListingPort = (*ListingClient)(nil)
