package policies

import (
	"context"

	"stayfinder/internal/domain/booking"
)

// BookingPort submits a finished draft to the external booking endpoint.
// Any non-success response surfaces as an error the caller turns into retry
// messaging; the port never partially succeeds.
type BookingPort interface {
	Submit(ctx context.Context, payload booking.SubmissionPayload) (booking.Confirmation, error)
}
