package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/phonebook/internal/dataapp"
	"github.com/mesh-intelligence/phonebook/internal/web"
)

func newWebCmd(f *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the phonebook web form",
		Long:  "Serve the web form until interrupted. The address comes from --addr,\nthen web.addr in config.yaml (env PHONEBOOK_WEB_ADDR), then " + web.DefaultAddr + ".",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetPrefix("[WEB] ")
			backend, s, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			if addr == "" {
				addr = s.webAddr
			}
			table, err := backend.Contacts()
			if err != nil {
				return sysError("contacts table: %w", err)
			}
			server, err := web.NewServer(web.Config{Addr: addr}, table)
			if err != nil {
				return sysError("web server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.ListenAndServe(ctx); err != nil {
				return sysError("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")
	return cmd
}

// isTerminal reports whether stdin and stdout are attached to a terminal.
var isTerminal = func() bool {
	return (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) &&
		(isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
}

// runDataApp starts the interactive data app; replaced in tests.
var runDataApp = dataapp.Run

func newAppCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "app",
		Short: "Open the interactive data app",
		Long:  "Open the terminal data app. Every action in the app calls one stored procedure.",
		Args:  userArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal() {
				return userError("app requires an interactive terminal")
			}
			backend, _, err := openBackend(f)
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := runDataApp(cmd.Context(), backend); err != nil && !errors.Is(err, context.Canceled) {
				return sysError("data app: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Bye.")
			return nil
		},
	}
}
