package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kern/internal/bridge"
)

// NewRecoverCommand creates the recover command.
func NewRecoverCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <id>",
		Short: "Promote the newest delta record to the snapshot",
		Long: `Promote a document's newest delta record to its snapshot.

Delta records are advisory: nothing replays them automatically. When a
snapshot is lost or stale, recover validates the newest record through
the engine and, if it loads cleanly, writes it as the new snapshot.
Promotion clears the remaining delta records.

Example:
  kern recover notes`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

// RecoverResult is the JSON payload for a successful recovery.
type RecoverResult struct {
	ID     string `json:"id"`
	Record string `json:"record"`
}

func runRecover(opts *RootOptions, id string, cmd *cobra.Command) error {
	st, _, err := openStore(opts)
	if err != nil {
		return respondError(cmd, opts, ExitCommandError, ErrCodeStorage, "failed to open storage", err)
	}

	names, err := st.ListUpdates(id)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to list delta records", err)
	}
	if len(names) == 0 {
		return respondError(cmd, opts, ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("no delta records for %s", id), nil)
	}

	newest := names[len(names)-1]
	blob, err := st.LoadUpdate(id, newest)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to read delta record", err)
	}

	// Validate through a scratch engine before touching the snapshot.
	ctx := commandContext(cmd)
	client := bridge.NewClient()
	defer client.Terminate()
	if _, err := client.Init(ctx); err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeEngine, "engine failed to start", err)
	}
	if err := client.LoadFromBytes(ctx, blob); err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeEngine,
			fmt.Sprintf("record %s does not load as a snapshot", newest), err)
	}

	if err := st.SaveSnapshot(id, blob); err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to write recovered snapshot", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd, RecoverResult{ID: id, Record: newest})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recovered %s from %s\n", id, newest)
	return nil
}
