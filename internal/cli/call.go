package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCallCmd(f *rootFlags) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "call <procedure> [args...]",
		Short: "Call a stored procedure and print its result set",
		Long: "Call one stored procedure with positional text arguments, the same way\n" +
			"the data app does. Use --list to print the available procedures.",
		Example: `  phonebook call add_contact "Ann Lee" 555-0100 ""
  phonebook call search_contacts ann
  phonebook call show_table contacts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list && len(args) == 0 {
				return userError("procedure name required (see --list)")
			}
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			if list {
				for _, sig := range backend.Procedures() {
					fmt.Fprintln(cmd.OutOrStdout(), sig)
				}
				return nil
			}

			callArgs := make([]any, len(args)-1)
			for i, a := range args[1:] {
				callArgs[i] = a
			}
			records, err := backend.Call(cmd.Context(), args[0], callArgs...)
			if err != nil {
				return err
			}
			return printRecords(cmd, f, records)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list stored procedures")
	return cmd
}
