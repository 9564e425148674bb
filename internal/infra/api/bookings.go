package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"stayfinder/internal/app/policies"
	"stayfinder/internal/domain/booking"
)

// ErrSubmissionRejected wraps any non-created response from the booking
// endpoint; callers surface it as retry messaging.
var ErrSubmissionRejected = errors.New("api: booking submission rejected")

// BookingClient posts finished drafts to the external booking endpoint.
type BookingClient struct {
	Client  *http.Client
	BaseURL string
	Logger  *slog.Logger
}

type bookingResponse struct {
	ID  string `json:"id"`
	MID string `json:"_id"`
}

// Submit sends the payload; only 201 Created counts as success. The returned
// confirmation carries the endpoint's booking id when it provides one, or a
// locally generated reference otherwise.
func (c *BookingClient) Submit(ctx context.Context, payload booking.SubmissionPayload) (booking.Confirmation, error) {
	var zero booking.Confirmation
	if c == nil || c.Client == nil {
		return zero, errors.New("api: http client not configured")
	}
	if c.BaseURL == "" {
		return zero, errors.New("api: booking base url not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return zero, err
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/api/bookings/"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("booking submission failed", payload.ListingID, err)
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("%w: %v", ErrSubmissionRejected, statusError("booking endpoint", resp))
		c.logError("booking endpoint rejected submission", payload.ListingID, err)
		return zero, err
	}

	var created bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// The booking was created; a malformed body only costs the reference.
		created = bookingResponse{}
	}
	reference := created.ID
	if reference == "" {
		reference = created.MID
	}
	if reference == "" {
		reference = strings.ToUpper(uuid.NewString()[:9])
	}
	return booking.Confirmation{Reference: reference}, nil
}

func (c *BookingClient) logError(msg, listingID string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error(msg, "listing_id", listingID, "error", err)
}

var _ policies.BookingPort = (*BookingClient)(nil)
