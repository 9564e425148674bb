package checkout

import (
	"errors"
	"strings"
)

// PaymentDetails is the payment form as the user has entered it, card number
// in its spaced display form. It is validated atomically before submission
// and discarded afterwards.
type PaymentDetails struct {
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
}

// Validation failures carry the message shown to the user. Rules are checked
// in order and the first failure wins.
var (
	ErrCardNumber     = errors.New("Please enter a valid 16-digit card number")
	ErrExpiry         = errors.New("Please enter a valid expiry date (MM/YY)")
	ErrCVV            = errors.New("Please enter a valid 3-digit CVV")
	ErrCardholderName = errors.New("Please enter the cardholder name")
	ErrEmail          = errors.New("Please enter a valid email address")
)

// Validate checks the structural correctness of the payment form, not its
// financial correctness. The expiry check is shape-only; the month range is
// left to the payment gateway.
func Validate(p PaymentDetails) error {
	if len(digitsOf(p.CardNumber)) != 16 {
		return ErrCardNumber
	}
	if !expiryShapeOK(p.Expiry) {
		return ErrExpiry
	}
	if len(p.CVV) != 3 || digitsOf(p.CVV) != p.CVV {
		return ErrCVV
	}
	if strings.TrimSpace(p.CardholderName) == "" {
		return ErrCardholderName
	}
	email := strings.TrimSpace(p.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrEmail
	}
	return nil
}

func expiryShapeOK(expiry string) bool {
	if len(expiry) != 5 || expiry[2] != '/' {
		return false
	}
	return digitsOf(expiry[:2]) == expiry[:2] && digitsOf(expiry[3:]) == expiry[3:]
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
