// Package pipeline runs the documentation stages in order: read the feature
// manifest, render category pages, sync screenshots, build the site, check
// it and publish it.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/featuredocs/internal/config"
	"git.home.luguber.info/inful/featuredocs/internal/docs"
	"git.home.luguber.info/inful/featuredocs/internal/eventstore"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
	"git.home.luguber.info/inful/featuredocs/internal/manifest"
	"git.home.luguber.info/inful/featuredocs/internal/metrics"
	"git.home.luguber.info/inful/featuredocs/internal/notify"
	"git.home.luguber.info/inful/featuredocs/internal/site"
)

// Options injects the pipeline's collaborators. Zero values fall back to the
// real filesystem, the configured site command and no-op observers.
type Options struct {
	FS       fsys.FS
	Builder  site.Builder
	Recorder metrics.Recorder
	History  eventstore.Store
	Notifier notify.Notifier
	Revision string
	// Observers are notified in addition to metrics and history.
	Observers []Observer
}

// Pipeline executes runs against one project root.
type Pipeline struct {
	cfg  *config.Config
	root string
	opts Options
}

// New creates a pipeline. cfg must already have defaults applied.
func New(cfg *config.Config, root string, opts Options) *Pipeline {
	if opts.FS == nil {
		opts.FS = fsys.OS()
	}
	if opts.Builder == nil {
		opts.Builder = site.NewCommandBuilder(cfg.Site.Command)
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NoopNotifier{}
	}
	return &Pipeline{cfg: cfg, root: root, opts: opts}
}

// State carries mutable data across the stages of one run.
type State struct {
	Config   *config.Config
	Root     string
	FS       fsys.FS
	Report   *Report
	Manifest *manifest.Manifest
	Groups   []docs.CategoryGroup

	opts Options
}

// path resolves a configured path against the project root.
func (s *State) path(p string) string { return config.Resolve(s.Root, p) }

// record appends a stage-specific event to the run history, if enabled.
func (s *State) record(e eventstore.Event, err error) {
	historyObserver{store: s.opts.History, runID: s.Report.RunID}.record(e, err)
}

// Run executes the stages of mode. The returned report is always non-nil;
// the error is the fatal stage error, if any.
func (p *Pipeline) Run(ctx context.Context, mode Mode) (*Report, error) {
	report := newReport(uuid.NewString(), mode)
	state := &State{
		Config: p.cfg,
		Root:   p.root,
		FS:     p.opts.FS,
		Report: report,
		opts:   p.opts,
	}

	obs := observers{recorderObserver{rec: p.opts.Recorder}}
	if p.opts.History != nil {
		obs = append(obs, historyObserver{store: p.opts.History, runID: report.RunID, revision: p.opts.Revision})
	}
	obs = append(obs, p.opts.Observers...)

	slog.Info("Run started", logfields.RunID(report.RunID), slog.String("mode", string(mode)))
	obs.OnRunStart(report)

	err := runStages(ctx, state, stagesFor(mode), obs)
	report.finish()
	obs.OnRunComplete(report)

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "Run finished",
		logfields.RunID(report.RunID),
		logfields.DurationMS(float64(report.Duration())/float64(time.Millisecond)),
		slog.String("summary", report.Summary()))
	return report, err
}
