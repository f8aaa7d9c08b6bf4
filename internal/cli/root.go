// Package cli implements the phonebook command-line interface: the web and
// data-app front-ends plus plain-SQL maintenance commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/internal/paths"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// NewRootCmd creates the top-level "phonebook" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "phonebook",
		Short: "A minimal phonebook with a web form and a data app",
		Long: "Phonebook keeps contacts (full name, phone number, note) in a SQLite table.\n" +
			"Use \"web\" for the browser form, \"app\" for the terminal data app,\n" +
			"or the plain commands below for scripting.",
		Args: userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &codeError{code: exitUserError, err: err}
	})

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	root.PersistentFlags().BoolVar(&f.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(f),
		newWebCmd(f),
		newAppCmd(f),
		newAddCmd(f),
		newListCmd(f),
		newUpdateCmd(f),
		newDeleteCmd(f),
		newCallCmd(f),
		newExportCmd(f),
		newImportCmd(f),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

// run executes root with args, reports any error to stderr, and returns the
// process exit code.
func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	return exitCode(err)
}

// exitCode classifies err: validation and lookup failures are the user's,
// everything else is a system error.
func exitCode(err error) int {
	var ce *codeError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, userErr := range []error{
		fs.ErrNotExist,
		types.ErrNotFound,
		types.ErrInvalidID,
		types.ErrInvalidData,
		types.ErrInvalidName,
		types.ErrInvalidPhone,
		types.ErrDuplicatePhone,
		types.ErrInvalidFilter,
		types.ErrProcedureNotFound,
		types.ErrInvalidArgs,
	} {
		if errors.Is(err, userErr) {
			return exitUserError
		}
	}
	return exitSysError
}

// codeError carries an explicit exit code.
type codeError struct {
	code int
	err  error
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &codeError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &codeError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// userArgs marks positional-argument validation failures as user errors.
func userArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &codeError{code: exitUserError, err: err}
		}
		return nil
	}
}
