package commands

import (
	"git.home.luguber.info/inful/featuredocs/internal/pipeline"
	"git.home.luguber.info/inful/featuredocs/internal/site"
)

// GenerateCmd implements the 'generate' command: the full pipeline.
type GenerateCmd struct {
	SkipBuild bool `name:"skip-build" help:"Do not run the site builder; publish the existing build output"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	return root.runPipeline(global, pipeline.ModeGenerate, func(opts *pipeline.Options) {
		if g.SkipBuild {
			opts.Builder = &site.NoopBuilder{}
		}
	})
}

// RenderCmd implements the 'render' command: pages and screenshots only.
type RenderCmd struct{}

func (r *RenderCmd) Run(global *Global, root *CLI) error {
	return root.runPipeline(global, pipeline.ModeRender, nil)
}

// PublishCmd implements the 'publish' command: copy an existing build.
type PublishCmd struct{}

func (p *PublishCmd) Run(global *Global, root *CLI) error {
	return root.runPipeline(global, pipeline.ModePublish, nil)
}
