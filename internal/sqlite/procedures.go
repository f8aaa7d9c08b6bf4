package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// procedure is a named routine in the backend's catalog. SQLite has no
// stored routines, so each one is compiled in and runs inside the single
// transaction opened by Call.
type procedure struct {
	params []string
	run    func(ctx context.Context, tx *sql.Tx, args []string) ([]types.Record, error)
}

// catalog returns the stored procedures keyed by name.
func catalog() map[string]procedure {
	return map[string]procedure{
		types.ProcAddContact: {
			params: []string{"full_name", "phone_number", "note"},
			run:    addContact,
		},
		types.ProcDeleteContact: {
			params: []string{"phone_number"},
			run:    deleteContact,
		},
		types.ProcUpdateContact: {
			params: []string{"phone_number", "full_name", "new_phone_number", "note"},
			run:    updateContact,
		},
		types.ProcSearchContacts: {
			params: []string{"search_query"},
			run:    searchContacts,
		},
		types.ProcShowTable: {
			params: []string{"table_name"},
			run:    showTable,
		},
	}
}

// Procedures lists the catalog as "name(param, ...)" signatures, sorted.
func (b *Backend) Procedures() []string {
	sigs := make([]string, 0, len(b.procs))
	for name, p := range b.procs {
		sigs = append(sigs, name+"("+strings.Join(p.params, ", ")+")")
	}
	sort.Strings(sigs)
	return sigs
}

// Call invokes the named stored procedure with positional string arguments
// and returns its result set. The whole call runs in one transaction.
// Returns ErrProcedureNotFound for unknown names and ErrInvalidArgs when the
// argument count or types do not match the routine.
func (b *Backend) Call(ctx context.Context, name string, args ...any) ([]types.Record, error) {
	p, ok := b.procs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrProcedureNotFound, name)
	}
	if len(args) != len(p.params) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d",
			types.ErrInvalidArgs, name, len(p.params), len(args))
	}
	strArgs := make([]string, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s argument %s must be text, got %T",
				types.ErrInvalidArgs, name, p.params[i], a)
		}
		strArgs[i] = strings.TrimSpace(s)
	}

	var records []types.Record
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		records, err = p.run(ctx, tx, strArgs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return records, nil
}

func addContact(ctx context.Context, tx *sql.Tx, args []string) ([]types.Record, error) {
	c := &types.Contact{FullName: args[0], PhoneNumber: args[1], Note: args[2]}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	id, err := insertContact(ctx, tx, c)
	if err != nil {
		return nil, err
	}
	return []types.Record{{
		"message":    fmt.Sprintf("Contact %s added", c.FullName),
		"contact_id": id,
	}}, nil
}

func deleteContact(ctx context.Context, tx *sql.Tx, args []string) ([]types.Record, error) {
	phone := args[0]
	if phone == "" {
		return nil, types.ErrInvalidPhone
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM contacts WHERE phone_number = ?", phone)
	if err != nil {
		return nil, fmt.Errorf("deleting contact: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, fmt.Errorf("%w: phone number %s", err, phone)
	}
	return []types.Record{{
		"message": fmt.Sprintf("Contact with phone number %s deleted", phone),
	}}, nil
}

// updateContact rewrites the contact found by phone number. The row keeps
// its id; an empty new phone number or note keeps the stored value.
func updateContact(ctx context.Context, tx *sql.Tx, args []string) ([]types.Record, error) {
	phone, fullName, newPhone, note := args[0], args[1], args[2], args[3]
	if phone == "" {
		return nil, types.ErrInvalidPhone
	}
	if fullName == "" {
		return nil, types.ErrInvalidName
	}

	before, err := scanContact(tx.QueryRowContext(ctx, selectContact+" WHERE phone_number = ?", phone))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("%w: phone number %s", err, phone)
		}
		return nil, err
	}

	after := *before
	after.FullName = fullName
	if newPhone != "" {
		after.PhoneNumber = newPhone
	}
	if note != "" {
		after.Note = note
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE contacts SET full_name = ?, phone_number = ?, note = ? WHERE id = ?",
		after.FullName, after.PhoneNumber, after.Note, after.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating contact: %w", translateError(err))
	}
	return []types.Record{{
		"message": fmt.Sprintf("Contact %s updated", after.FullName),
		"before":  contactRecord(*before),
		"after":   contactRecord(after),
	}}, nil
}

func searchContacts(ctx context.Context, tx *sql.Tx, args []string) ([]types.Record, error) {
	pattern := likePattern(args[0])
	contacts, err := queryContacts(ctx, tx,
		selectContact+` WHERE casefold(full_name) LIKE ? ESCAPE '\' OR casefold(phone_number) LIKE ? ESCAPE '\' ORDER BY id`,
		pattern, pattern,
	)
	if err != nil {
		return nil, err
	}
	records := make([]types.Record, 0, len(contacts))
	for _, c := range contacts {
		records = append(records, contactRecord(c))
	}
	return records, nil
}

// showTable returns every row of the named table as a JSON object decoded
// into a Record. An unknown table yields a single {"error": ...} record
// instead of a Go error.
func showTable(ctx context.Context, tx *sql.Tx, args []string) ([]types.Record, error) {
	table := args[0]
	if table != types.TableContacts {
		return []types.Record{{
			"error": fmt.Sprintf("table %q does not exist", table),
		}}, nil
	}

	rows, err := tx.QueryContext(ctx, `SELECT json_object(
    'contact_id', id,
    'full_name', full_name,
    'phone_number', phone_number,
    'note', note
) FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		var rec types.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding %s row: %w", table, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func contactRecord(c types.Contact) types.Record {
	return types.Record{
		"contact_id":   c.ID,
		"full_name":    c.FullName,
		"phone_number": c.PhoneNumber,
		"note":         c.Note,
	}
}
