package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kern/internal/doc"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Line   int
	Col    int
	Insert string
	Delete int
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Apply a single edit and save",
		Long: `Apply one edit to a stored document through the engine, then save it.

The edit deletes characters backward and/or inserts text at the given
line and column. Use \n inside --insert to split lines.

Example:
  kern edit notes --line 0 --col 5 --insert ", world"
  kern edit notes --line 1 --col 3 --delete 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Line, "line", 0, "line index (0-based)")
	cmd.Flags().IntVar(&opts.Col, "col", 0, "column in runes (0-based)")
	cmd.Flags().StringVar(&opts.Insert, "insert", "", "text to insert")
	cmd.Flags().IntVar(&opts.Delete, "delete", 0, "characters to delete backward")

	return cmd
}

// EditResult is the JSON payload for a successful edit.
type EditResult struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
}

func runEdit(opts *EditOptions, id string, cmd *cobra.Command) error {
	if opts.Insert == "" && opts.Delete == 0 {
		return respondError(cmd, opts.RootOptions, ExitCommandError, ErrCodeBadInput,
			"nothing to do: pass --insert and/or --delete", nil)
	}
	if opts.Delete < 0 {
		return respondError(cmd, opts.RootOptions, ExitCommandError, ErrCodeBadInput,
			"--delete must not be negative", nil)
	}

	ctx := commandContext(cmd)
	ed, err := openEditor(ctx, opts.RootOptions, id)
	if err != nil {
		return respondError(cmd, opts.RootOptions, ExitFailure, ErrCodeGeneric, "failed to start editor", err)
	}
	defer ed.Close()

	if !ed.coord.StorageAvailable() {
		return respondError(cmd, opts.RootOptions, ExitCommandError, ErrCodeStorage,
			fmt.Sprintf("storage unavailable at %s", ed.settings.StorageDir), nil)
	}

	data, err := ed.store.LoadDocument(id)
	if err != nil {
		return respondError(cmd, opts.RootOptions, ExitFailure, ErrCodeStorage, "failed to load document", err)
	}
	if data == nil {
		return respondError(cmd, opts.RootOptions, ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("document not found: %s", id), nil)
	}

	delta := doc.EditDelta{
		Line:   opts.Line,
		Col:    opts.Col,
		Insert: strings.ReplaceAll(opts.Insert, `\n`, "\n"),
		Delete: opts.Delete,
	}

	before := ed.coord.View().Version
	ed.coord.ApplyEdit(ctx, delta)
	view := ed.coord.View()
	if view.Version == before {
		return respondError(cmd, opts.RootOptions, ExitFailure, ErrCodeEngine,
			"edit rejected", ed.coord.LastError())
	}

	if err := ed.coord.SaveDocument(ctx); err != nil {
		return respondError(cmd, opts.RootOptions, ExitFailure, ErrCodeStorage, "failed to save document", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd, EditResult{ID: id, Version: view.Version})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Edited %s (version %d)\n", id, view.Version)
	return nil
}
