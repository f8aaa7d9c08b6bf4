package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// contactHeaders are the contacts columns in table order.
var contactHeaders = []string{"contact_id", "full_name", "phone_number", "note"}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printContacts writes contacts as JSON with --json, otherwise as a table.
func printContacts(cmd *cobra.Command, f *rootFlags, contacts []types.Contact) error {
	if f.jsonMode {
		if contacts == nil {
			contacts = []types.Contact{}
		}
		return printJSON(cmd, contacts)
	}
	if len(contacts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No contacts found.")
		return nil
	}
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.FullName, c.PhoneNumber, c.Note})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(contactHeaders, rows))
	return nil
}

// printRecords writes a procedure result set. Columns are the union of the
// record keys, contacts columns first.
func printRecords(cmd *cobra.Command, f *rootFlags, records []types.Record) error {
	if f.jsonMode {
		if records == nil {
			records = []types.Record{}
		}
		return printJSON(cmd, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No rows.")
		return nil
	}
	headers := recordColumns(records)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = formatValue(r[h])
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
	return nil
}

func recordColumns(records []types.Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, h := range contactHeaders {
		for _, r := range records {
			if _, ok := r[h]; ok {
				cols = append(cols, h)
				seen[h] = true
				break
			}
		}
	}
	var rest []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case types.Record, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}
