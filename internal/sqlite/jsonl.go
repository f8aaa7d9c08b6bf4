package sqlite

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Export writes every contact to path as one JSON object per line and
// returns the number written.
func (b *Backend) Export(ctx context.Context, path string) (int, error) {
	var contacts []types.Contact
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		contacts, err = queryContacts(ctx, tx, selectContact+" ORDER BY id")
		return err
	})
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(contacts))
	for _, c := range contacts {
		data, err := json.Marshal(c)
		if err != nil {
			return 0, fmt.Errorf("marshaling contact %d: %w", c.ID, err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Import loads contacts from a JSONL file in one transaction. Contacts with
// an ID replace the stored row with that ID; contacts without one are
// inserted. Lines that are not valid JSON are skipped. Returns the number of
// contacts imported.
func (b *Backend) Import(ctx context.Context, path string) (int, error) {
	raw, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	contacts := make([]types.Contact, 0, len(raw))
	for i, rec := range raw {
		var c types.Contact
		if err := json.Unmarshal(rec, &c); err != nil {
			return 0, fmt.Errorf("%w: record %d: %v", types.ErrInvalidData, i+1, err)
		}
		c.Normalize()
		if err := c.Validate(); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		contacts = append(contacts, c)
	}

	err = b.withTx(ctx, func(tx *sql.Tx) error {
		for i := range contacts {
			c := &contacts[i]
			if c.ID == 0 {
				if _, err := insertContact(ctx, tx, c); err != nil {
					return err
				}
				continue
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO contacts (id, full_name, phone_number, note)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    full_name = excluded.full_name,
    phone_number = excluded.phone_number,
    note = excluded.note`,
				c.ID, c.FullName, c.PhoneNumber, c.Note,
			)
			if err != nil {
				return fmt.Errorf("importing contact %d: %w", c.ID, translateError(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}
