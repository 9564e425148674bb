package checkout

// Form builds PaymentDetails incrementally from user input, applying the
// field normalization at the point of entry: the card number is regrouped
// into blocks of four digits capped at 19 visible characters, the expiry
// separator is auto-inserted after the second digit capped at 5, and the CVV
// accepts digits only capped at 3. Oversized input keeps the previous value,
// the way a capped text field swallows extra keystrokes.
type Form struct {
	Details PaymentDetails `json:"details"`
}

// Field names accepted by Set.
const (
	FieldCardNumber     = "cardNumber"
	FieldExpiry         = "expiryDate"
	FieldCVV            = "cvv"
	FieldCardholderName = "cardholderName"
	FieldEmail          = "email"
	FieldPhone          = "phone"
)

// Set writes one field through its normalizer. Unknown fields are ignored.
func (f *Form) Set(field, value string) {
	switch field {
	case FieldCardNumber:
		f.SetCardNumber(value)
	case FieldExpiry:
		f.SetExpiry(value)
	case FieldCVV:
		f.SetCVV(value)
	case FieldCardholderName:
		f.Details.CardholderName = value
	case FieldEmail:
		f.Details.Email = value
	case FieldPhone:
		f.Details.Phone = value
	}
}

// SetCardNumber regroups digits into space-separated blocks of four.
func (f *Form) SetCardNumber(value string) {
	formatted := FormatCardNumber(value)
	if len(formatted) <= 19 {
		f.Details.CardNumber = formatted
	}
}

// SetExpiry inserts the MM/YY separator after the second digit.
func (f *Form) SetExpiry(value string) {
	formatted := FormatExpiry(value)
	if len(formatted) <= 5 {
		f.Details.Expiry = formatted
	}
}

// SetCVV keeps digits only.
func (f *Form) SetCVV(value string) {
	formatted := digitsOf(value)
	if len(formatted) <= 3 {
		f.Details.CVV = formatted
	}
}

// Validate runs the submission checks over the current field values.
func (f *Form) Validate() error {
	return Validate(f.Details)
}

// Reset discards everything entered so far.
func (f *Form) Reset() {
	f.Details = PaymentDetails{}
}

// FormatCardNumber renders digits as space-separated groups of four,
// e.g. "4111111111111111" -> "4111 1111 1111 1111".
func FormatCardNumber(value string) string {
	digits := digitsOf(value)
	var out []byte
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%4 == 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[i])
	}
	return string(out)
}

// FormatExpiry renders digits as MM/YY, inserting the slash once a third
// digit arrives.
func FormatExpiry(value string) string {
	digits := digitsOf(value)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}
