package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/refinery/internal/cli/config"
	"github.com/leapstack-labs/refinery/internal/state"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent pipeline runs",
		Long: `List recent pipeline runs from the run-history store, most recent
first, with their status, the stage they reached, and duration.`,
		Example: `  # Show the last ten runs
  refinery runs

  # Show the last three runs
  refinery runs --limit 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, limit int) error {
	cfg := config.FromContext(cmd.Context())

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.StatePath); err != nil {
		return fmt.Errorf("failed to open run-history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.InitSchema(); err != nil {
		return err
	}

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	renderRuns(out, runs)
	return nil
}

func renderRuns(w io.Writer, runs []*state.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Run", "Env", "Status", "Stage", "Started", "Duration"})

	for _, r := range runs {
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			shortID(r.ID),
			r.Environment,
			string(r.Status),
			r.Stage,
			r.StartedAt.Format(time.RFC3339),
			duration,
		})
	}
	t.Render()
	fmt.Fprintf(w, "(%d runs)\n", len(runs))
}

// shortID truncates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
