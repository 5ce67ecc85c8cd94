package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Long: `Delete a document's snapshot and every delta record it owns.

Deleting an id with nothing stored is not an error.

Example:
  kern delete notes`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

// DeletedDocument is the JSON payload for a successful delete.
type DeletedDocument struct {
	ID string `json:"id"`
}

func runDelete(opts *RootOptions, id string, cmd *cobra.Command) error {
	st, _, err := openStore(opts)
	if err != nil {
		return respondError(cmd, opts, ExitCommandError, ErrCodeStorage, "failed to open storage", err)
	}

	if err := st.DeleteDocument(id); err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to delete document", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd, DeletedDocument{ID: id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %s\n", id)
	return nil
}
