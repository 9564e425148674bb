package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/dto"
	"stayfinder/internal/app/session"
	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/checkout"
	"stayfinder/internal/domain/listings"
	"stayfinder/internal/domain/pricing"
)

type SessionHandler struct {
	Service *session.Service
}

type createSessionRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

func (h SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.Service.Create(c.Request.Context(), req.ListingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapSession(sess))
}

func (h SessionHandler) Get(c *gin.Context) {
	sess, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

type clickDayRequest struct {
	Day int `json:"day" binding:"required"`
}

func (h SessionHandler) ClickDay(c *gin.Context) {
	var req clickDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.Service.ClickDay(c.Request.Context(), c.Param("id"), req.Day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

type navigateRequest struct {
	Direction int `json:"direction" binding:"required"`
}

func (h SessionHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Direction != -1 && req.Direction != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be -1 or 1"})
		return
	}
	sess, err := h.Service.Navigate(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

func (h SessionHandler) ClearDates(c *gin.Context) {
	sess, err := h.Service.ClearDates(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

func (h SessionHandler) Calendar(c *gin.Context) {
	grid, err := h.Service.Grid(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

type setGuestsRequest struct {
	Guests int `json:"guests" binding:"required"`
}

func (h SessionHandler) SetGuests(c *gin.Context) {
	var req setGuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.Service.SetGuests(c.Request.Context(), c.Param("id"), req.Guests)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

func (h SessionHandler) Quote(c *gin.Context) {
	sess, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapQuote(sess.Quote(), sess.Guests))
}

func (h SessionHandler) BuildDraft(c *gin.Context) {
	sess, err := h.Service.BuildDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapSession(sess))
}

type updatePaymentRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

func (h SessionHandler) UpdatePayment(c *gin.Context) {
	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var sess *session.Session
	var err error
	for field, value := range req.Fields {
		sess, err = h.Service.UpdatePayment(c.Request.Context(), c.Param("id"), field, value)
		if err != nil {
			writeError(c, err)
			return
		}
	}
	if sess == nil {
		sess, err = h.Service.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

func (h SessionHandler) Submit(c *gin.Context) {
	credential := extractBearerToken(c.GetHeader("Authorization"))
	sess, err := h.Service.Submit(c.Request.Context(), c.Param("id"), credential)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapSession(sess))
}

// writeError maps engine errors to HTTP responses. Validation and
// precondition failures carry their user-facing message verbatim.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, listings.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrSubmitInFlight), errors.Is(err, session.ErrAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrNotBookable),
		errors.Is(err, session.ErrNoDraft),
		errors.Is(err, pricing.ErrInvalidGuests),
		errors.Is(err, pricing.ErrInvalidRate),
		errors.Is(err, checkout.ErrCardNumber),
		errors.Is(err, checkout.ErrExpiry),
		errors.Is(err, checkout.ErrCVV),
		errors.Is(err, checkout.ErrCardholderName),
		errors.Is(err, checkout.ErrEmail):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to process booking. Please try again."})
	}
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

var _ SessionHTTP = SessionHandler{}
