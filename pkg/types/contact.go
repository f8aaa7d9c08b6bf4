package types

import (
	"strings"

	"golang.org/x/text/cases"
)

// Contact is one row of the contacts table.
type Contact struct {
	ID          int64  `json:"contact_id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Note        string `json:"note"`
}

// Normalize trims surrounding whitespace from every text field.
func (c *Contact) Normalize() {
	c.FullName = strings.TrimSpace(c.FullName)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	c.Note = strings.TrimSpace(c.Note)
}

// Validate reports whether the contact can be stored. The note is optional;
// name and phone number are required.
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(c.PhoneNumber) == "" {
		return ErrInvalidPhone
	}
	return nil
}

// Matches reports whether query occurs in the full name or phone number,
// ignoring case. An empty query matches every contact. The store's search
// uses the same folding.
func (c *Contact) Matches(query string) bool {
	q := Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(Fold(c.FullName), q) ||
		strings.Contains(Fold(c.PhoneNumber), q)
}

// Fold applies Unicode case folding to s.
func Fold(s string) string {
	// A Caser is stateful and must not be shared.
	return cases.Fold().String(s)
}
