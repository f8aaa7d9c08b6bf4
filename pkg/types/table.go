package types

import (
	"context"
	"errors"
)

// Filter narrows a Fetch. Recognized keys are FilterQuery, FilterFullName and
// FilterPhoneNumber; every value must be a string.
type Filter map[string]any

// Filter keys accepted by ContactsTable.Fetch.
const (
	FilterQuery       = "query"
	FilterFullName    = "full_name"
	FilterPhoneNumber = "phone_number"
)

// ContactsTable provides plain-SQL CRUD over the contacts table.
type ContactsTable interface {
	// Get retrieves the contact with the given ID.
	// Returns ErrInvalidID for non-positive IDs and ErrNotFound if absent.
	Get(ctx context.Context, id int64) (*Contact, error)

	// Set creates or updates a contact. When id is zero a new row is
	// inserted and its generated ID returned; otherwise every column of the
	// existing row is overwritten and id is returned unchanged.
	Set(ctx context.Context, id int64, c *Contact) (int64, error)

	// Delete removes the contact with the given ID.
	// Returns ErrNotFound if no contact exists with that ID.
	Delete(ctx context.Context, id int64) error

	// Fetch returns all contacts matching the filter ordered by ID. A nil
	// or empty filter returns every contact.
	Fetch(ctx context.Context, filter Filter) ([]Contact, error)
}

// Table operation errors.
var (
	ErrNotFound       = errors.New("contact not found")
	ErrInvalidID      = errors.New("invalid contact ID")
	ErrInvalidData    = errors.New("invalid contact data")
	ErrInvalidName    = errors.New("full name must not be empty")
	ErrInvalidPhone   = errors.New("phone number must not be empty")
	ErrDuplicatePhone = errors.New("phone number already exists")
	ErrInvalidFilter  = errors.New("invalid filter")
)
