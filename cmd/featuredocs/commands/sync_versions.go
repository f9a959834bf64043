package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/featuredocs/internal/config"
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
	"git.home.luguber.info/inful/featuredocs/internal/reconcile"
)

// SyncVersionsCmd implements the 'sync-versions' command.
type SyncVersionsCmd struct {
	Version string   `arg:"" optional:"" help:"Target @vaadin platform version"`
	Package string   `short:"p" name:"package" help:"Path to package.json (relative to --root)"`
	Allow   []string `name:"allow" help:"Additional package names that follow the target version"`
	DryRun  bool     `name:"dry-run" help:"Print the changes without writing the file"`
}

func (s *SyncVersionsCmd) Run(global *Global, root *CLI) error {
	if s.Version == "" {
		return errors.UsageError("missing version argument (usage: featuredocs sync-versions <version>)").Build()
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Reconcile.PackageFile
	if s.Package != "" {
		path = s.Package
	}
	path = config.Resolve(root.Root, path)

	policy := reconcile.Policy{
		Namespace: cfg.Reconcile.Namespace,
		Pins:      cfg.Reconcile.Pins,
		Allow:     append(append([]string(nil), cfg.Reconcile.Allow...), s.Allow...),
	}

	rt := root.newRuntime(global, cfg)
	defer rt.Close()

	res, err := reconcile.Run(global.FS, path, s.Version, policy, s.DryRun)
	if err != nil {
		return err
	}

	counts := map[reconcile.Action]int{}
	for _, c := range res.Changes {
		counts[c.Action]++
		_, _ = fmt.Fprintf(global.Stdout, "%-7s %s %s: %s -> %s\n", c.Action, c.Section, c.Name, orDash(c.From), orDash(c.To))
	}
	if rec := rt.opts.Recorder; rec != nil {
		for action, n := range counts {
			rec.AddVersionChanges(string(action), n)
		}
	}

	if s.DryRun {
		slog.Info("Dry run: package file not written",
			logfields.Path(path), logfields.Version(s.Version), logfields.Count(len(res.Changes)))
		return nil
	}
	slog.Info("Synchronized @vaadin dependency versions",
		logfields.Path(path), logfields.Version(s.Version), logfields.Count(len(res.Changes)))
	_, _ = fmt.Fprintf(global.Stdout, "Updated %s to version %s\n", path, s.Version)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
