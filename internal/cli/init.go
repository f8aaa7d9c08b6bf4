package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/internal/sqlite"
)

func newInitCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file and the contacts database",
		Long:  "Write config.yaml to the config directory if it is missing, then create the\ndata directory and the contacts table.",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(f)
			if err != nil {
				return err
			}

			configPath := filepath.Join(s.configDir, configFileName+"."+configFileType)
			wrote, err := writeConfigIfMissing(configPath, s.backend.DataDir)
			if err != nil {
				return sysError("write config: %w", err)
			}

			backend := sqlite.NewBackend()
			if err := backend.Attach(s.backend); err != nil {
				return sysError("initialize storage: %w", err)
			}
			if err := backend.Detach(); err != nil {
				return sysError("finalize storage: %w", err)
			}

			out := cmd.OutOrStdout()
			if wrote {
				fmt.Fprintf(out, "Wrote %s\n", configPath)
			}
			fmt.Fprintf(out, "Phonebook initialized in %s\n", s.backend.DataDir)
			return nil
		},
	}
}
