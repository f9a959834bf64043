package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/featuredocs/internal/config"
	"git.home.luguber.info/inful/featuredocs/internal/eventstore"
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/git"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of runs to show" default:"10"`
	RunID string `name:"run" help:"Show the stages of one run"`
	JSON  bool   `name:"json" help:"Print JSON instead of a table"`
}

func (h *HistoryCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	path := config.Resolve(root.Root, cfg.History.Path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_, _ = fmt.Fprintf(global.Stdout, "No runs recorded (history database %s not found; enable history.enabled)\n", path)
		return nil
	}

	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	limit := h.Limit
	if limit <= 0 {
		limit = 10
	}
	proj := eventstore.NewRunHistoryProjection(store, max(limit, 20))
	if err := proj.Rebuild(context.Background()); err != nil {
		return err
	}

	if h.RunID != "" {
		run, ok := proj.Run(h.RunID)
		if !ok {
			return errors.MissingInputError("run not found in history").WithContext("run_id", h.RunID).Build()
		}
		return h.printRun(global, run)
	}
	return h.printRuns(global, proj.History(limit))
}

func (h *HistoryCmd) printRuns(global *Global, runs []eventstore.RunSummary) error {
	if h.JSON {
		return writeJSON(global, runs)
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(global.Stdout, "No runs recorded")
		return nil
	}
	tw := tabwriter.NewWriter(global.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tCOMMAND\tREVISION\tSTARTED\tDURATION\tPAGES\tSTATUS")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.RunID, r.Command, git.Short(r.Revision),
			r.StartedAt.Local().Format(time.DateTime),
			r.Duration.Truncate(time.Millisecond), r.Pages, r.Status)
	}
	return tw.Flush()
}

func (h *HistoryCmd) printRun(global *Global, run eventstore.RunSummary) error {
	if h.JSON {
		return writeJSON(global, run)
	}
	_, _ = fmt.Fprintf(global.Stdout, "run %s (%s) %s\n", run.RunID, run.Command, run.Status)
	tw := tabwriter.NewWriter(global.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STAGE\tRESULT\tDURATION\tERROR")
	for _, s := range run.Stages {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Stage, s.Result, s.Duration.Truncate(time.Millisecond), s.Error)
	}
	return tw.Flush()
}

func writeJSON(global *Global, v any) error {
	enc := json.NewEncoder(global.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
