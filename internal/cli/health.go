package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check engine and storage health",
		Long: `Bring up the engine, run a live health probe, and report whether
the storage root is usable.

Example:
  kern health
  kern health --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(rootOpts, cmd)
		},
	}

	return cmd
}

// HealthResult is the JSON payload for the health probe.
type HealthResult struct {
	Health           string `json:"health"`
	StorageAvailable bool   `json:"storage_available"`
	StorageDir       string `json:"storage_dir"`
}

func runHealth(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	ed, err := openEditor(ctx, opts, "")
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeEngine, "engine failed to start", err)
	}
	defer ed.Close()

	health, err := ed.client.CheckHealth(ctx)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeEngine, "engine health check failed", err)
	}

	available := ed.coord.StorageAvailable()
	if opts.Format == "json" {
		return writeJSON(cmd, HealthResult{
			Health:           health,
			StorageAvailable: available,
			StorageDir:       ed.settings.StorageDir,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, health)
	if available {
		fmt.Fprintf(out, "Storage: available (%s)\n", ed.settings.StorageDir)
	} else {
		fmt.Fprintf(out, "Storage: unavailable (%s), running memory-only\n", ed.settings.StorageDir)
	}
	return nil
}
