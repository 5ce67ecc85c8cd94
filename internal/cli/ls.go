package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLsCommand creates the ls command.
func NewLsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored documents",
		Long: `List the ids of every document with a stored snapshot, sorted.

Example:
  kern ls
  kern ls --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(rootOpts, cmd)
		},
	}

	return cmd
}

// DocumentList is the JSON payload for ls.
type DocumentList struct {
	Documents []string `json:"documents"`
}

func runLs(opts *RootOptions, cmd *cobra.Command) error {
	st, _, err := openStore(opts)
	if err != nil {
		return respondError(cmd, opts, ExitCommandError, ErrCodeStorage, "failed to open storage", err)
	}

	ids, err := st.ListDocuments()
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to list documents", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd, DocumentList{Documents: ids})
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No documents.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}
