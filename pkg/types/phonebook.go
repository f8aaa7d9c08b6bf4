package types

import (
	"context"
	"errors"
)

// Phonebook defines backend-agnostic access to the contacts store. Callers
// attach to a backend, use the contacts table or stored procedures, and
// detach when done.
type Phonebook interface {
	// Attach connects the Phonebook to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations return ErrDetached.
	Detach() error

	// Contacts returns the plain-SQL accessor for the contacts table.
	Contacts() (ContactsTable, error)

	Caller
}

// Caller invokes a named stored procedure and returns its result set.
type Caller interface {
	Call(ctx context.Context, name string, args ...any) ([]Record, error)
}

// Record is one row of a procedure result set, keyed by column name.
type Record map[string]any

// String returns the value at key as a string, or "" if absent or not text.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Int returns the value at key as an int64, or 0 if absent or not numeric.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Contact decodes a record shaped like a contacts row.
func (r Record) Contact() Contact {
	return Contact{
		ID:          r.Int("contact_id"),
		FullName:    r.String("full_name"),
		PhoneNumber: r.String("phone_number"),
		Note:        r.String("note"),
	}
}

// Stored procedure names.
const (
	ProcAddContact     = "add_contact"
	ProcDeleteContact  = "delete_contact"
	ProcUpdateContact  = "update_contact"
	ProcSearchContacts = "search_contacts"
	ProcShowTable      = "show_table"
)

// TableContacts is the only table show_table can display.
const TableContacts = "contacts"

// Phonebook lifecycle and procedure errors.
var (
	ErrDetached          = errors.New("phonebook is detached")
	ErrAlreadyAttached   = errors.New("phonebook is already attached")
	ErrProcedureNotFound = errors.New("procedure not found")
	ErrInvalidArgs       = errors.New("invalid procedure arguments")
)
