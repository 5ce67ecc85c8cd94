package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/kern/internal/coordinator"
	"github.com/roach88/kern/internal/doc"
)

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session <id>",
		Short: "Edit a document interactively",
		Long: `Open an interactive editing session on a document.

The session reads one command per line from stdin while the autosave
timers run in the background. The document is saved when the session
ends, whether by quit, end of input, or SIGINT/SIGTERM.

Commands:
  insert <line> <col> <text>   insert text (use \n to split lines)
  delete <line> <col> <count>  delete count characters backward
  set <text>                   replace the whole document
  view                         print the current view
  save                         snapshot now
  flush                        append buffered deltas now
  quit                         save and end the session

Example:
  kern session notes
  printf 'set hello\nview\nquit\n' | kern session scratch`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runSession(opts *RootOptions, id string, cmd *cobra.Command) error {
	ed, err := openEditor(commandContext(cmd), opts, id)
	if err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeGeneric, "failed to start editor", err)
	}
	defer ed.Close()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	// Setup signal handling so a Ctrl-C still saves on the way out.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, ending session", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	stopAutosave := ed.coord.SetupAutoSave(ctx)
	defer stopAutosave()

	out := cmd.OutOrStdout()
	storage := "available"
	if !ed.coord.StorageAvailable() {
		storage = "unavailable, changes stay in memory"
	}
	fmt.Fprintf(out, "Session on %s (storage %s). Type quit to end.\n", id, storage)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if strings.TrimSpace(line) == "quit" {
				break loop
			}
			sessionLine(ctx, ed.coord, out, line)
		}
	}

	// The session context may already be canceled here; the final save
	// still has to run.
	if err := ed.coord.SaveDocument(context.Background()); err != nil {
		return respondError(cmd, opts, ExitFailure, ErrCodeStorage, "final save failed", err)
	}
	fmt.Fprintln(out, "Session ended.")
	return nil
}

// sessionLine executes one protocol line against the coordinator.
func sessionLine(ctx context.Context, coord *coordinator.Coordinator, out io.Writer, line string) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch verb {
	case "":
		// Blank lines are ignored.
	case "insert":
		lineNo, col, text, err := parseEditArgs(rest)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		applyAndReport(ctx, coord, out, doc.EditDelta{Line: lineNo, Col: col, Insert: unescape(text)})
	case "delete":
		lineNo, col, tail, err := parseEditArgs(rest)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		count, err := strconv.Atoi(strings.TrimSpace(tail))
		if err != nil {
			fmt.Fprintf(out, "error: bad count %q\n", tail)
			return
		}
		applyAndReport(ctx, coord, out, doc.EditDelta{Line: lineNo, Col: col, Delete: count})
	case "set":
		coord.SetDocumentText(ctx, unescape(rest))
		fmt.Fprintf(out, "v%d\n", coord.View().Version)
	case "view":
		printView(out, coord.View())
	case "save":
		if err := coord.SaveDocument(ctx); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintln(out, "saved")
	case "flush":
		coord.Flush(ctx)
		fmt.Fprintln(out, "flushed")
	default:
		fmt.Fprintf(out, "unknown command %q\n", verb)
	}
}

// applyAndReport funnels one edit through the coordinator and prints the
// outcome. A version that did not move means the engine rejected the edit.
func applyAndReport(ctx context.Context, coord *coordinator.Coordinator, out io.Writer, delta doc.EditDelta) {
	before := coord.View().Version
	coord.ApplyEdit(ctx, delta)
	view := coord.View()
	if view.Version == before {
		fmt.Fprintf(out, "error: %v\n", coord.LastError())
		return
	}
	fmt.Fprintf(out, "v%d\n", view.Version)
}

// parseEditArgs splits "<line> <col> <tail>" off a protocol line.
func parseEditArgs(args string) (int, int, string, error) {
	first, remainder, _ := strings.Cut(args, " ")
	second, tail, _ := strings.Cut(remainder, " ")

	lineNo, err := strconv.Atoi(first)
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad line number %q", first)
	}
	col, err := strconv.Atoi(second)
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad column %q", second)
	}
	return lineNo, col, tail, nil
}

// printView renders the numbered document body.
func printView(out io.Writer, v doc.View) {
	fmt.Fprintf(out, "version %d\n", v.Version)
	for i, line := range v.Lines {
		fmt.Fprintf(out, "%4d  %s\n", i, line.Content)
	}
}

// unescape turns literal \n sequences into newlines so multi-line text
// can ride a single protocol line.
func unescape(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
