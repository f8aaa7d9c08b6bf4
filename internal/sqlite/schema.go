package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Schema DDL. Statements are idempotent so Attach can run them against an
// existing database file.
const (
	createContacts = `CREATE TABLE IF NOT EXISTS contacts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    full_name TEXT NOT NULL CHECK (length(trim(full_name)) > 0),
    phone_number TEXT NOT NULL UNIQUE CHECK (length(trim(phone_number)) > 0),
    note TEXT NOT NULL DEFAULT ''
);`

	idxContactsFullName = `CREATE INDEX IF NOT EXISTS idx_contacts_full_name ON contacts(full_name);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createContacts,
	idxContactsFullName,
}

// casefoldFunc is a SQL function that applies Unicode case folding.
// The built-in lower() only folds ASCII, which misses Cyrillic names.
const casefoldFunc = "casefold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(casefoldFunc, 1,
		func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return types.Fold(v), nil
			case []byte:
				return types.Fold(string(v)), nil
			default:
				return v, nil
			}
		})
}

// applySchema creates the tables and indexes if they do not exist.
func applySchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// likePattern builds a case-folded substring pattern for LIKE ... ESCAPE '\'.
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(types.Fold(query)) + "%"
}
