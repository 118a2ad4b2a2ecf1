package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	var noConfig bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Initialize shopdesk in the current directory",
		Annotations: noStore,
		Long: `Initialize shopdesk in the current directory.

This command creates the .shopdesk/ directory with:
- shopdesk.db: SQLite database with the current schema
- config.toml: commented configuration file (skip with --no-config)
- logs/: directory for the global and per-order logs

Running init again applies pending schema migrations and leaves data untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(c.Config.DataDir, 0o750); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}
			if err := c.OpenStore(); err != nil {
				return err
			}

			out, err := c.InitStoreUseCase().Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			if !noConfig {
				_, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{})
				if err != nil && !errors.Is(err, domain.ErrConfigExists) {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "shopdesk already initialized in %s (schema up to date)\n", out.DataDir)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Initialized shopdesk in %s\n", out.DataDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noConfig, "no-config", false, "Do not create config.toml")
	return cmd
}
