package config

import "maps"

// DefaultPins lists @vaadin packages whose published versions do not follow
// the platform version stream.
var DefaultPins = map[string]string{
	"@vaadin/vaadin-development-mode-detector": "2.0.7",
	"@vaadin/vaadin-usage-statistics":          "2.1.3",
}

const (
	DefaultManifestPath   = "docs/manifest.json"
	DefaultScreenshotsDir = "docs/screenshots"
	DefaultPagesDir       = "docs-site/content/features"
	DefaultAssetsDir      = "docs-site/static/screenshots"
	DefaultSiteDir        = "docs-site"
	DefaultSiteOutputDir  = "docs-site/public"
	DefaultMarker         = ".nojekyll"
	DefaultPackageFile    = "package.json"
	DefaultNamespace      = "@vaadin/"
	DefaultNotifySubject  = "featuredocs.published"
	DefaultHistoryPath    = ".featuredocs/history.db"
)

// DefaultPublishTargets are the site artifact directory and the web
// application's embedded static resources.
var DefaultPublishTargets = []string{
	"build/docs",
	"src/main/resources/META-INF/resources/docs",
}

// DefaultSiteCommand builds the Hugo site in Site.Dir.
var DefaultSiteCommand = []string{"hugo", "--minify"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Manifest.Path == "" {
		cfg.Manifest.Path = DefaultManifestPath
	}
	if cfg.Manifest.ScreenshotsDir == "" {
		cfg.Manifest.ScreenshotsDir = DefaultScreenshotsDir
	}
	if cfg.Pages.OutputDir == "" {
		cfg.Pages.OutputDir = DefaultPagesDir
	}
	if cfg.Assets.Destination == "" {
		cfg.Assets.Destination = DefaultAssetsDir
	}
	if cfg.Site.Dir == "" {
		cfg.Site.Dir = DefaultSiteDir
	}
	if len(cfg.Site.Command) == 0 {
		cfg.Site.Command = append([]string(nil), DefaultSiteCommand...)
	}
	if cfg.Site.OutputDir == "" {
		cfg.Site.OutputDir = DefaultSiteOutputDir
	}
	if cfg.Site.Marker == "" {
		cfg.Site.Marker = DefaultMarker
	}
	if len(cfg.Publish.Targets) == 0 {
		cfg.Publish.Targets = append([]string(nil), DefaultPublishTargets...)
	}
	if cfg.Reconcile.PackageFile == "" {
		cfg.Reconcile.PackageFile = DefaultPackageFile
	}
	if cfg.Reconcile.Namespace == "" {
		cfg.Reconcile.Namespace = DefaultNamespace
	}
	if cfg.Reconcile.Pins == nil {
		cfg.Reconcile.Pins = maps.Clone(DefaultPins)
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
}
