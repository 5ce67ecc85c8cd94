package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Long: `Show how many snapshots and delta records are stored and the
total bytes they occupy.

Example:
  kern stats
  kern stats --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}

	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	st, settings, err := openStore(opts)
	if err != nil {
		return respondError(cmd, opts, ExitCommandError, ErrCodeStorage, "failed to open storage", err)
	}

	stats, err := st.GetStats()
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to collect stats", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd, stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Storage:     %s\n", settings.StorageDir)
	fmt.Fprintf(out, "Snapshots:   %d\n", stats.SnapshotCount)
	fmt.Fprintf(out, "Deltas:      %d\n", stats.UpdatesCount)
	fmt.Fprintf(out, "Total bytes: %d\n", stats.TotalBytes)
	return nil
}
