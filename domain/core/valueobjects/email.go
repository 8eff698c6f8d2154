package valueobjects

import (
	"net/mail"
	"strings"

	pkgerrors "onboardhq-backend/pkg/errors"
)

// Email is a validated, normalized email address
type Email struct {
	value string
}

// NewEmail creates an email with validation. Addresses are lowercased so
// lookups are case-insensitive.
func NewEmail(address string) (Email, error) {
	address = strings.TrimSpace(strings.ToLower(address))
	if address == "" {
		return Email{}, pkgerrors.NewValidationError("email cannot be empty")
	}

	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return Email{}, pkgerrors.NewValidationError("invalid email address")
	}

	return Email{value: address}, nil
}

// String returns the normalized address
func (e Email) String() string {
	return e.value
}

// IsZero checks if the email is the zero value
func (e Email) IsZero() bool {
	return e.value == ""
}

// Domain returns the part after the @
func (e Email) Domain() string {
	at := strings.LastIndex(e.value, "@")
	if at < 0 {
		return ""
	}
	return e.value[at+1:]
}

// Equals checks if two emails are equal
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}
