package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored document",
		Long: `Print a document's text after restoring it through the engine.

With --format json the full view is printed: line ids, line contents,
and the version counter.

Example:
  kern show notes
  kern show notes --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	ed, err := openEditor(ctx, opts, id)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeGeneric, "failed to start editor", err)
	}
	defer ed.Close()

	if !ed.coord.StorageAvailable() {
		return respondError(cmd, opts, ExitCommandError, ErrCodeStorage,
			fmt.Sprintf("storage unavailable at %s", ed.settings.StorageDir), nil)
	}

	data, err := ed.store.LoadDocument(id)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to load document", err)
	}
	if data == nil {
		return respondError(cmd, opts, ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("document not found: %s", id), nil)
	}

	view := ed.coord.View()
	if opts.Format == "json" {
		return writeJSON(cmd, view)
	}
	fmt.Fprintln(cmd.OutOrStdout(), view.Text())
	return nil
}
