// Package config loads and validates the featuredocs configuration.
//
// The configuration lives in featuredocs.yaml (or featuredocs.toml) at the
// project root. Every path in it is relative to that root unless absolute.
package config

import "path/filepath"

// Config is the root configuration document.
type Config struct {
	Manifest  ManifestConfig  `yaml:"manifest" toml:"manifest"`
	Pages     PagesConfig     `yaml:"pages" toml:"pages"`
	Assets    AssetsConfig    `yaml:"assets" toml:"assets"`
	Site      SiteConfig      `yaml:"site" toml:"site"`
	Publish   PublishConfig   `yaml:"publish" toml:"publish"`
	Reconcile ReconcileConfig `yaml:"reconcile" toml:"reconcile"`
	Notify    NotifyConfig    `yaml:"notify,omitempty" toml:"notify,omitempty"`
	History   HistoryConfig   `yaml:"history,omitempty" toml:"history,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty" toml:"metrics,omitempty"`
}

// ManifestConfig locates the feature manifest and its screenshots.
type ManifestConfig struct {
	Path           string `yaml:"path" toml:"path"`
	ScreenshotsDir string `yaml:"screenshots_dir" toml:"screenshots_dir"`
}

// PagesConfig controls generated Markdown pages.
type PagesConfig struct {
	OutputDir   string `yaml:"output_dir" toml:"output_dir"`
	Template    string `yaml:"template,omitempty" toml:"template,omitempty"` // Handlebars template file
	FrontMatter bool   `yaml:"front_matter" toml:"front_matter"`
}

// AssetsConfig controls the screenshot sync.
type AssetsConfig struct {
	Destination string   `yaml:"destination" toml:"destination"`
	Include     []string `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
}

// SiteConfig describes the external static-site build.
type SiteConfig struct {
	Dir       string   `yaml:"dir" toml:"dir"`
	Command   []string `yaml:"command" toml:"command"`
	OutputDir string   `yaml:"output_dir" toml:"output_dir"`
	Marker    string   `yaml:"marker" toml:"marker"`
}

// PublishConfig lists the directories the built site is copied into, in order.
type PublishConfig struct {
	Targets []string `yaml:"targets" toml:"targets"`
}

// ReconcileConfig drives the sync-versions command.
type ReconcileConfig struct {
	PackageFile string            `yaml:"package_file" toml:"package_file"`
	Namespace   string            `yaml:"namespace" toml:"namespace"`
	Pins        map[string]string `yaml:"pins" toml:"pins"`
	Allow       []string          `yaml:"allow" toml:"allow"`
}

// NotifyConfig enables a NATS message after a successful publish.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty" toml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty" toml:"subject,omitempty"`
}

// HistoryConfig enables the SQLite run history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path,omitempty" toml:"path,omitempty"`
}

// MetricsConfig enables a Prometheus textfile written at the end of each run.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path,omitempty" toml:"textfile_path,omitempty"`
}

// Resolve joins p onto root unless p is already absolute. Empty stays empty.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
