package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kern/internal/bridge"
	"github.com/roach88/kern/internal/config"
	"github.com/roach88/kern/internal/coordinator"
	"github.com/roach88/kern/internal/store"
)

// editor bundles the wired stack a command drives.
type editor struct {
	settings *config.Settings
	store    *store.Store
	client   *bridge.Client
	coord    *coordinator.Coordinator
}

// resolveSettings merges the config file with global flags. Flags win;
// values still unset fall back to built-in defaults at wiring time.
func resolveSettings(opts *RootOptions) (*config.Settings, error) {
	path := opts.ConfigPath
	if path == "" {
		path = defaultConfigPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.StorageDir != "" {
		settings.StorageDir = opts.StorageDir
	}
	if settings.StorageDir == "" {
		settings.StorageDir = DefaultStorageDir()
	}
	return settings, nil
}

// openStore resolves settings and initializes the file store alone, for
// commands that never need the engine.
func openStore(opts *RootOptions) (*store.Store, *config.Settings, error) {
	settings, err := resolveSettings(opts)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(settings.StorageDir)
	if !st.Init() {
		return nil, nil, fmt.Errorf("storage unavailable at %s", settings.StorageDir)
	}
	return st, settings, nil
}

// openEditor wires the full engine+store+coordinator stack on docID and
// brings it up. The caller must Close the editor when done.
func openEditor(ctx context.Context, opts *RootOptions, docID string) (*editor, error) {
	settings, err := resolveSettings(opts)
	if err != nil {
		return nil, err
	}

	st := store.New(settings.StorageDir)

	// The placeholder seeds both the fresh engine at init and the
	// coordinator's later document switches.
	bopts := []bridge.Option{}
	if settings.Placeholder != "" {
		bopts = append(bopts, bridge.WithBody(settings.Placeholder))
	}
	client := bridge.NewClient(bopts...)

	copts := []coordinator.Option{}
	if docID != "" {
		copts = append(copts, coordinator.WithDocumentID(docID))
	}
	if settings.SnapshotInterval > 0 {
		copts = append(copts, coordinator.WithSnapshotInterval(settings.SnapshotInterval))
	}
	if settings.FlushInterval > 0 {
		copts = append(copts, coordinator.WithFlushInterval(settings.FlushInterval))
	}
	if settings.Placeholder != "" {
		copts = append(copts, coordinator.WithPlaceholderBody(settings.Placeholder))
	}
	coord := coordinator.New(client, st, copts...)

	if err := coord.InitStore(ctx); err != nil {
		client.Terminate()
		return nil, fmt.Errorf("engine failed to start: %w", err)
	}

	return &editor{settings: settings, store: st, client: client, coord: coord}, nil
}

// Close shuts down the engine context.
func (e *editor) Close() {
	e.client.Terminate()
}

// commandContext returns the command's context, or a background one when
// the caller did not set one (tests construct commands without contexts).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// writeJSON renders a success response with indentation to the command's
// stdout.
func writeJSON(cmd *cobra.Command, data interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: data})
}

// respondError emits a structured error in JSON mode, then returns the
// matching exit error, so scripted callers get parseable output on stdout
// and a meaningful exit code either way.
func respondError(cmd *cobra.Command, opts *RootOptions, exitCode int, errCode, message string, err error) error {
	if opts.Format == "json" {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		var details interface{}
		if err != nil {
			details = err.Error()
		}
		_ = f.Error(errCode, message, details)
	}
	if err != nil {
		return WrapExitError(exitCode, message, err)
	}
	return NewExitError(exitCode, message)
}
