package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"git.home.luguber.info/inful/featuredocs/internal/assets"
	"git.home.luguber.info/inful/featuredocs/internal/docs"
	"git.home.luguber.info/inful/featuredocs/internal/eventstore"
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
	"git.home.luguber.info/inful/featuredocs/internal/manifest"
	"git.home.luguber.info/inful/featuredocs/internal/markdown"
	"git.home.luguber.info/inful/featuredocs/internal/notify"
	"git.home.luguber.info/inful/featuredocs/internal/publish"
	"git.home.luguber.info/inful/featuredocs/internal/site"
)

func stageLoadManifest(_ context.Context, st *State) error {
	m, err := manifest.Read(st.FS, st.path(st.Config.Manifest.Path))
	if err != nil {
		return err
	}
	st.Manifest = m
	st.Report.Features = len(m.Features)
	st.opts.Recorder.SetFeatures(len(m.Features))

	missing := m.MissingImages(st.FS, st.path(st.Config.Manifest.ScreenshotsDir))
	for _, f := range missing {
		slog.Warn("Screenshot missing for feature",
			logfields.Category(f.Category),
			logfields.Feature(f.Title),
			logfields.File(f.ImageName()))
		st.Report.MissingImages = append(st.Report.MissingImages, f.ImageName())
	}
	if len(missing) > 0 {
		return newWarnStageError(StageLoadManifest, fmt.Errorf("%d screenshots missing", len(missing)))
	}
	return nil
}

func stageRenderPages(_ context.Context, st *State) error {
	opts := docs.RenderOptions{
		FrontMatter: st.Config.Pages.FrontMatter,
		Revision:    st.opts.Revision,
	}
	if st.Config.Pages.Template != "" {
		tplPath := st.path(st.Config.Pages.Template)
		data, err := fsys.ReadFile(st.FS, tplPath)
		if err != nil {
			return errors.ConfigError("cannot read page template").
				WithCause(err).
				WithContext("path", tplPath).
				Build()
		}
		opts.Template = string(data)
	}

	st.Groups = docs.GroupByCategory(st.Manifest.Features)
	st.Report.Categories = len(st.Groups)

	pages, err := docs.RenderPages(st.Groups, opts)
	if err != nil {
		return err
	}

	var unlinked []string
	if opts.Template == "" {
		for i, page := range pages {
			for _, img := range unlinkedScreenshots(st.Groups[i], page.Content) {
				slog.Warn("Rendered page does not link a screenshot",
					logfields.Category(page.Category), logfields.File(img))
				unlinked = append(unlinked, img)
			}
		}
	}

	pages, err = docs.SavePages(st.FS, st.path(st.Config.Pages.OutputDir), pages)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(pages))
	for _, page := range pages {
		st.Report.Pages = append(st.Report.Pages, page.Path)
		files = append(files, page.File)
		slog.Info("Wrote page", logfields.Category(page.Category), logfields.Path(page.Path))
	}
	st.Report.PagesHash = docs.ComputePagesHash(pages)
	st.opts.Recorder.SetPages(len(pages))
	st.record(eventstore.NewPagesRendered(st.Report.RunID, files, st.Report.PagesHash))

	if len(unlinked) > 0 {
		return newWarnStageError(StageRenderPages, fmt.Errorf("%d screenshots not linked as images", len(unlinked)))
	}
	return nil
}

// unlinkedScreenshots re-parses a rendered page and returns the screenshot
// URLs of the group that do not come out as Markdown images. Titles and
// descriptions are free text, so only the image links are checked.
func unlinkedScreenshots(g docs.CategoryGroup, content []byte) []string {
	outline, err := markdown.Inspect(content)
	if err != nil {
		slog.Debug("Rendered page does not parse", logfields.Category(g.Name), logfields.Error(err))
	}
	var missing []string
	for _, f := range g.Features {
		url := docs.ImageURL(f.ImageName())
		if !slices.Contains(outline.Images, url) {
			missing = append(missing, url)
		}
	}
	return missing
}

func stageSyncAssets(_ context.Context, st *State) error {
	filter := assets.Filter{Include: st.Config.Assets.Include, Exclude: st.Config.Assets.Exclude}
	if err := filter.Validate(); err != nil {
		return err
	}

	src := st.path(st.Config.Manifest.ScreenshotsDir)
	res, err := assets.Sync(st.FS, src, st.path(st.Config.Assets.Destination), filter)
	if err != nil {
		return err
	}
	st.Report.AssetsSkipped = res.Skipped
	st.Report.AssetsCopied = len(res.Copied)
	st.opts.Recorder.AddAssetsCopied(len(res.Copied))
	if res.Skipped {
		slog.Info("No screenshots directory, skipping asset sync", logfields.Path(src))
	} else {
		slog.Info("Synced screenshots", logfields.Count(len(res.Copied)), logfields.Path(src))
	}
	st.record(eventstore.NewAssetsSynced(st.Report.RunID, len(res.Copied), res.Skipped))
	return nil
}

func stageRunSiteBuild(ctx context.Context, st *State) error {
	dir := st.path(st.Config.Site.Dir)
	slog.Info("Building site", logfields.Path(dir), logfields.Command(st.Config.Site.Command))
	return st.opts.Builder.Build(ctx, dir)
}

func stageScanSite(_ context.Context, st *State) error {
	out := st.path(st.Config.Site.OutputDir)
	ok, err := fsys.DirExists(st.FS, out)
	if err != nil || !ok {
		// publish reports the missing build output.
		return nil
	}
	dangling, err := site.ScanBuiltSite(st.FS, out, docs.ScreenshotURLPrefix)
	if err != nil {
		return err
	}
	st.Report.DanglingImages = len(dangling)
	for _, d := range dangling {
		slog.Warn("Built page references a missing screenshot", logfields.File(d.Page), logfields.Path(d.Src))
	}
	if len(dangling) > 0 {
		return newWarnStageError(StageScanSite, fmt.Errorf("%d screenshot references without a file", len(dangling)))
	}
	return nil
}

func stagePublish(_ context.Context, st *State) error {
	targets := make([]string, 0, len(st.Config.Publish.Targets))
	for _, t := range st.Config.Publish.Targets {
		targets = append(targets, st.path(t))
	}
	res, err := publish.Publish(st.FS, st.path(st.Config.Site.OutputDir), targets, st.Config.Site.Marker)
	st.Report.Published = res.Targets
	if err != nil {
		return err
	}
	st.record(eventstore.NewSitePublished(st.Report.RunID, res.Targets))
	return nil
}

func stageNotify(ctx context.Context, st *State) error {
	if _, noop := st.opts.Notifier.(notify.NoopNotifier); noop {
		return nil
	}
	err := st.opts.Notifier.Notify(ctx, notify.Published{
		RunID:     st.Report.RunID,
		Revision:  st.opts.Revision,
		Pages:     len(st.Report.Pages),
		PagesHash: st.Report.PagesHash,
		Targets:   st.Report.Published,
	})
	if err != nil {
		return newWarnStageError(StageNotify, err)
	}
	st.Report.Notified = true
	return nil
}
