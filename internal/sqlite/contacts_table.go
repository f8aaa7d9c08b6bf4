package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Compile-time interface check: contactsTable must implement ContactsTable.
var _ types.ContactsTable = (*contactsTable)(nil)

const selectContact = "SELECT id, full_name, phone_number, note FROM contacts"

// contactsTable implements ContactsTable with one parameterized statement
// per operation.
type contactsTable struct {
	backend *Backend
}

// Get retrieves a contact by ID.
func (ct *contactsTable) Get(ctx context.Context, id int64) (*types.Contact, error) {
	if id <= 0 {
		return nil, types.ErrInvalidID
	}

	var c *types.Contact
	err := ct.backend.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		c, err = scanContact(tx.QueryRowContext(ctx, selectContact+" WHERE id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Set inserts the contact when id is zero and updates the existing row
// otherwise.
func (ct *contactsTable) Set(ctx context.Context, id int64, c *types.Contact) (int64, error) {
	if c == nil {
		return 0, types.ErrInvalidData
	}
	if id < 0 {
		return 0, types.ErrInvalidID
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return 0, err
	}

	err := ct.backend.withTx(ctx, func(tx *sql.Tx) error {
		if id == 0 {
			newID, err := insertContact(ctx, tx, c)
			if err != nil {
				return err
			}
			id = newID
			return nil
		}
		res, err := tx.ExecContext(ctx,
			"UPDATE contacts SET full_name = ?, phone_number = ?, note = ? WHERE id = ?",
			c.FullName, c.PhoneNumber, c.Note, id,
		)
		if err != nil {
			return fmt.Errorf("updating contact %d: %w", id, translateError(err))
		}
		return requireAffected(res)
	})
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// Delete removes a contact by ID.
func (ct *contactsTable) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	return ct.backend.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting contact %d: %w", id, err)
		}
		return requireAffected(res)
	})
}

// Fetch returns contacts matching the filter ordered by ID.
func (ct *contactsTable) Fetch(ctx context.Context, filter types.Filter) ([]types.Contact, error) {
	var conditions []string
	var args []any

	for key, v := range filter {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", types.ErrInvalidFilter, key)
		}
		switch key {
		case types.FilterQuery:
			pattern := likePattern(strings.TrimSpace(s))
			conditions = append(conditions,
				`(casefold(full_name) LIKE ? ESCAPE '\' OR casefold(phone_number) LIKE ? ESCAPE '\')`)
			args = append(args, pattern, pattern)
		case types.FilterFullName:
			conditions = append(conditions, "full_name = ?")
			args = append(args, s)
		case types.FilterPhoneNumber:
			conditions = append(conditions, "phone_number = ?")
			args = append(args, s)
		default:
			return nil, fmt.Errorf("%w: unknown key %q", types.ErrInvalidFilter, key)
		}
	}

	query := selectContact
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	var contacts []types.Contact
	err := ct.backend.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		contacts, err = queryContacts(ctx, tx, query, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func insertContact(ctx context.Context, tx *sql.Tx, c *types.Contact) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO contacts (full_name, phone_number, note) VALUES (?, ?, ?)",
		c.FullName, c.PhoneNumber, c.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting contact: %w", translateError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*types.Contact, error) {
	var c types.Contact
	err := row.Scan(&c.ID, &c.FullName, &c.PhoneNumber, &c.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning contact: %w", err)
	}
	return &c, nil
}

func queryContacts(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]types.Contact, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	contacts := []types.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// requireAffected returns ErrNotFound when a statement touched no rows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
