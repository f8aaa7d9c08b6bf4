package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all contacts to a JSONL file",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			n, err := backend.Export(cmd.Context(), args[0])
			if err != nil {
				return sysError("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d contact(s) to %s\n", n, args[0])
			return nil
		},
	}
}

func newImportCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load contacts from a JSONL file",
		Long:  "Load contacts from a JSONL file in one transaction. Records with a contact_id\nreplace that contact; records without one are added.",
		Args:  userArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			n, err := backend.Import(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d contact(s) from %s\n", n, args[0])
			return nil
		},
	}
}
