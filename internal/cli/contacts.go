package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// contactFlags holds the field flags shared by add and update.
type contactFlags struct {
	name  string
	phone string
	note  string
}

func (c *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.name, "name", "", "full name")
	cmd.Flags().StringVar(&c.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&c.note, "note", "", "free-form note")
}

func newAddCmd(f *rootFlags) *cobra.Command {
	var c contactFlags
	cmd := &cobra.Command{
		Use:     "add --name NAME --phone PHONE [--note NOTE]",
		Short:   "Add a contact",
		Args:    userArgs(cobra.NoArgs),
		Example: `  phonebook add --name "Ann Lee" --phone 555-0100 --note "work"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := backend.Contacts()
			if err != nil {
				return sysError("contacts table: %w", err)
			}
			contact := &types.Contact{FullName: c.name, PhoneNumber: c.phone, Note: c.note}
			id, err := table.Set(cmd.Context(), 0, contact)
			if err != nil {
				return fmt.Errorf("add contact: %w", err)
			}
			contact.ID = id
			return printContacts(cmd, f, []types.Contact{*contact})
		},
	}
	c.register(cmd)
	return cmd
}

func newListCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List contacts, optionally filtered by name or phone substring",
		Args:  userArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := backend.Contacts()
			if err != nil {
				return sysError("contacts table: %w", err)
			}
			var filter types.Filter
			if len(args) == 1 {
				filter = types.Filter{types.FilterQuery: args[0]}
			}
			contacts, err := table.Fetch(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list contacts: %w", err)
			}
			return printContacts(cmd, f, contacts)
		},
	}
}

func newUpdateCmd(f *rootFlags) *cobra.Command {
	var c contactFlags
	cmd := &cobra.Command{
		Use:     "update <id> [--name NAME] [--phone PHONE] [--note NOTE]",
		Short:   "Update a contact by id; omitted flags keep their value",
		Args:    userArgs(cobra.ExactArgs(1)),
		Example: `  phonebook update 3 --phone 555-0199`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := backend.Contacts()
			if err != nil {
				return sysError("contacts table: %w", err)
			}
			contact, err := table.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("update contact %d: %w", id, err)
			}
			if cmd.Flags().Changed("name") {
				contact.FullName = c.name
			}
			if cmd.Flags().Changed("phone") {
				contact.PhoneNumber = c.phone
			}
			if cmd.Flags().Changed("note") {
				contact.Note = c.note
			}
			if _, err := table.Set(cmd.Context(), id, contact); err != nil {
				return fmt.Errorf("update contact %d: %w", id, err)
			}
			return printContacts(cmd, f, []types.Contact{*contact})
		},
	}
	c.register(cmd)
	return cmd
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact by id",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			table, err := backend.Contacts()
			if err != nil {
				return sysError("contacts table: %w", err)
			}
			if err := table.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete contact %d: %w", id, err)
			}
			if f.jsonMode {
				return printJSON(cmd, map[string]any{"deleted": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted contact %d\n", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidID, s)
	}
	return id, nil
}
