package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/featuredocs/internal/config"
	"git.home.luguber.info/inful/featuredocs/internal/pipeline"
	"git.home.luguber.info/inful/featuredocs/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Build bool `name:"build" help:"Run the full pipeline (build and publish) on every change"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	rt := root.newRuntime(global, cfg)
	defer rt.Close()

	mode := pipeline.ModeRender
	if w.Build {
		mode = pipeline.ModeGenerate
	}
	p := pipeline.New(cfg, root.Root, rt.opts)

	watcher := &watch.Watcher{
		Paths:      watchPaths(root.Root, cfg),
		Ignore:     ignoredPaths(root.Root, cfg),
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			report, err := p.Run(ctx, mode)
			printReport(global.Stdout, report)
			return err
		},
	}

	ctx, cancel := signalContext()
	defer cancel()

	slog.Info("Press Ctrl+C to stop")
	return watcher.Watch(ctx)
}

// watchPaths are the inputs of a render: manifest, screenshots and template.
func watchPaths(root string, cfg *config.Config) []string {
	paths := []string{
		config.Resolve(root, cfg.Manifest.Path),
		config.Resolve(root, cfg.Manifest.ScreenshotsDir),
	}
	if cfg.Pages.Template != "" {
		paths = append(paths, config.Resolve(root, cfg.Pages.Template))
	}
	return paths
}

// ignoredPaths are pipeline outputs; changes there must not retrigger a run.
func ignoredPaths(root string, cfg *config.Config) []string {
	paths := []string{
		config.Resolve(root, cfg.Pages.OutputDir),
		config.Resolve(root, cfg.Assets.Destination),
		config.Resolve(root, cfg.Site.OutputDir),
		config.Resolve(root, cfg.History.Path),
	}
	for _, t := range cfg.Publish.Targets {
		paths = append(paths, config.Resolve(root, t))
	}
	return paths
}
