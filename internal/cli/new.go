package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [id]",
		Short: "Create a document",
		Long: `Create a document seeded with the placeholder body and save it.

When id is omitted a fresh UUIDv7 id is generated. Creating an id that
already exists is an error; the stored document is left untouched.

Example:
  kern new
  kern new notes`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runNew(rootOpts, id, cmd)
		},
	}

	return cmd
}

// CreatedDocument is the JSON payload for a successful create.
type CreatedDocument struct {
	ID string `json:"id"`
}

func runNew(opts *RootOptions, id string, cmd *cobra.Command) error {
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
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

	existing, err := ed.store.LoadDocument(id)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to probe document", err)
	}
	if existing != nil {
		return respondError(cmd, opts, ExitCommandError, ErrCodeBadInput,
			fmt.Sprintf("document already exists: %s", id), nil)
	}

	if err := ed.coord.SaveDocument(ctx); err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "failed to save document", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd, CreatedDocument{ID: id})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created document %s\n", id)
	return nil
}
