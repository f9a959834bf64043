package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/featuredocs/internal/config"
	"git.home.luguber.info/inful/featuredocs/internal/eventstore"
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
	"git.home.luguber.info/inful/featuredocs/internal/git"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
	"git.home.luguber.info/inful/featuredocs/internal/metrics"
	"git.home.luguber.info/inful/featuredocs/internal/notify"
	"git.home.luguber.info/inful/featuredocs/internal/pipeline"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "FEATUREDOCS_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	FS     fsys.FS
}

// NewGlobal returns the process-wide defaults: real filesystem, os.Stdout.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Stdout: os.Stdout, FS: fsys.OS()}
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path, relative to --root (default: featuredocs.yaml, optional)"`
	Root        string           `short:"C" help:"Project root directory" default:"." type:"path"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format after the run"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate     GenerateCmd     `cmd:"" help:"Render pages, sync screenshots, build and publish the site"`
	Render       RenderCmd       `cmd:"" help:"Render pages and sync screenshots without building"`
	Publish      PublishCmd      `cmd:"" help:"Publish an existing site build"`
	SyncVersions SyncVersionsCmd `cmd:"" name:"sync-versions" help:"Align @vaadin dependency versions in package.json"`
	Watch        WatchCmd        `cmd:"" help:"Re-render when the manifest or screenshots change"`
	History      HistoryCmd      `cmd:"" help:"List recent pipeline runs"`
	Init         InitCmd         `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if env := os.Getenv(LogLevelEnv); env != "" {
		if err := level.UnmarshalText([]byte(env)); err != nil {
			level = slog.LevelInfo
		}
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

// DefaultConfigFile is read from --root when --config is not given.
const DefaultConfigFile = "featuredocs.yaml"

// ConfigPath resolves --config (or DefaultConfigFile) against --root.
func (c *CLI) ConfigPath() string {
	name := c.Config
	if name == "" {
		name = DefaultConfigFile
	}
	return config.Resolve(c.Root, name)
}

// loadConfig reads the configuration. Without --config a missing default
// file means defaults; a file named with --config must exist.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.ConfigPath()
	if c.Config != "" {
		return config.Load(path)
	}
	cfg, _, err := config.LoadOrDefault(path)
	return cfg, err
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// runtime holds the optional collaborators of a pipeline run. Close releases
// them and flushes metrics.
type runtime struct {
	opts        pipeline.Options
	registry    *prom.Registry
	metricsFile string
	store       *eventstore.SQLiteStore
	notifier    notify.Notifier
}

// newRuntime wires history, notification and metrics from cfg and flags.
// Failures of these optional features are logged and the feature disabled.
func (c *CLI) newRuntime(g *Global, cfg *config.Config) *runtime {
	rt := &runtime{
		opts: pipeline.Options{
			FS:       g.FS,
			Revision: git.Revision(c.Root),
		},
	}

	rt.metricsFile = c.MetricsFile
	if rt.metricsFile == "" && cfg.Metrics.TextfilePath != "" {
		rt.metricsFile = config.Resolve(c.Root, cfg.Metrics.TextfilePath)
	}
	if rt.metricsFile != "" {
		rt.registry = prom.NewRegistry()
		rt.opts.Recorder = metrics.NewPrometheusRecorder(rt.registry)
	}

	if cfg.History.Enabled {
		if store, err := openHistory(config.Resolve(c.Root, cfg.History.Path)); err != nil {
			slog.Warn("Run history disabled", logfields.Error(err))
		} else {
			rt.store = store
			rt.opts.History = store
		}
	}

	if cfg.Notify.NATSURL != "" {
		n, err := notify.NewNATSNotifier(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Publish notification disabled", logfields.Error(err))
		} else {
			rt.notifier = n
			rt.opts.Notifier = n
		}
	}
	return rt
}

func (rt *runtime) Close() {
	if rt.registry != nil {
		if err := metrics.WriteTextfile(rt.metricsFile, rt.registry); err != nil {
			slog.Warn("Failed to write metrics", logfields.Path(rt.metricsFile), logfields.Error(err))
		} else {
			slog.Debug("Metrics written", logfields.Path(rt.metricsFile))
		}
	}
	if rt.notifier != nil {
		rt.notifier.Close()
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			slog.Warn("Failed to close history", logfields.Error(err))
		}
	}
}

func openHistory(path string) (*eventstore.SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create history directory").
			WithContext("path", path).
			Build()
	}
	return eventstore.NewSQLiteStore(path)
}

// runPipeline executes one pipeline run for mode and prints its summary.
func (c *CLI) runPipeline(g *Global, mode pipeline.Mode, configure func(*pipeline.Options)) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	rt := c.newRuntime(g, cfg)
	defer rt.Close()
	if configure != nil {
		configure(&rt.opts)
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := pipeline.New(cfg, c.Root, rt.opts).Run(ctx, mode)
	printReport(g.Stdout, report)
	return err
}

func printReport(w io.Writer, r *pipeline.Report) {
	if r == nil {
		return
	}
	var b strings.Builder
	b.WriteString(r.Summary())
	b.WriteByte('\n')
	for _, p := range r.Pages {
		b.WriteString("  page ")
		b.WriteString(p)
		b.WriteByte('\n')
	}
	for _, t := range r.Published {
		b.WriteString("  published ")
		b.WriteString(t)
		b.WriteByte('\n')
	}
	for _, warn := range r.Warnings {
		b.WriteString("  warning: ")
		b.WriteString(warn.Error())
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(w, b.String())
}
