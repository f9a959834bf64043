package commands

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featuredocs/internal/config"
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

const manifestJSON = `{
  "features": [
    {"category": "Booker", "title": "Roster", "description": "Manage wrestlers.", "imagePath": "screenshots/roster.png", "order": 20},
    {"category": "League Office", "title": "Standings", "description": "Season table.", "imagePath": "screenshots/standings.png", "order": 10}
  ]
}`

const packageJSON = `{
  "name": "app",
  "dependencies": {
    "@vaadin/button": "24.3.0",
    "@vaadin/vaadin-usage-statistics": "2.1.0",
    "lit": "3.1.0"
  }
}
`

// runCLI parses args like main does and runs the selected command.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	var out bytes.Buffer
	g := &Global{Logger: slog.Default(), Stdout: &out, FS: fsys.OS()}
	parser, err := kong.New(cli,
		kong.Name("featuredocs"),
		kong.Vars{"version": "test"},
		kong.Bind(g),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return out.String(), err
	}
	err = ctx.Run(g, cli)
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.DefaultManifestPath), manifestJSON)
	writeFile(t, filepath.Join(dir, config.DefaultScreenshotsDir, "roster.png"), "roster")
	writeFile(t, filepath.Join(dir, config.DefaultScreenshotsDir, "standings.png"), "standings")
	return dir
}

func exitCode(err error) int {
	return errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err)
}

func TestSyncVersions_PinsAndWrites(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "package.json")
	writeFile(t, pkg, packageJSON)

	out, err := runCLI(t, "--root", dir, "sync-versions", "24.4.0", "--allow", "@vaadin/button")
	require.NoError(t, err)
	assert.Contains(t, out, "pinned")
	assert.Contains(t, out, "Updated "+pkg+" to version 24.4.0")

	data, err := os.ReadFile(pkg)
	require.NoError(t, err)
	got := string(data)
	assert.Contains(t, got, `"@vaadin/button": "24.4.0"`)
	assert.Contains(t, got, `"@vaadin/vaadin-usage-statistics": "2.1.3"`)
	assert.Contains(t, got, `"lit": "3.1.0"`)
	assert.Contains(t, got, `"overrides"`)

	// A second run is a fixed point.
	out, err = runCLI(t, "--root", dir, "sync-versions", "24.4.0", "--allow", "@vaadin/button")
	require.NoError(t, err)
	assert.NotContains(t, out, "pinned")
	again, err := os.ReadFile(pkg)
	require.NoError(t, err)
	assert.Equal(t, got, string(again))
}

func TestSyncVersions_DryRun(t *testing.T) {
	dir := t.TempDir()
	pkg := filepath.Join(dir, "package.json")
	writeFile(t, pkg, packageJSON)

	out, err := runCLI(t, "--root", dir, "sync-versions", "24.4.0", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "@vaadin/vaadin-usage-statistics: 2.1.0 -> 2.1.3")

	data, err := os.ReadFile(pkg)
	require.NoError(t, err)
	assert.Equal(t, packageJSON, string(data))
}

func TestSyncVersions_UsageErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "--root", dir, "sync-versions")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUsage, exitCode(err))

	_, err = runCLI(t, "--root", dir, "sync-versions", "24.4.0")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUsage, exitCode(err), "missing package file")

	_, err = runCLI(t, "--root", dir, "sync-versions", "24.4.0", "--package", "web/package.json")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUsage, exitCode(err))
}

func TestSyncVersions_MalformedPackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": [`)

	_, err := runCLI(t, "--root", dir, "sync-versions", "24.4.0")
	require.Error(t, err)
	assert.Equal(t, errors.ExitMalformedInput, exitCode(err))
}

func TestRender_WritesPagesAndScreenshots(t *testing.T) {
	dir := newProject(t)

	out, err := runCLI(t, "--root", dir, "render")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome=success")

	booker, err := os.ReadFile(filepath.Join(dir, config.DefaultPagesDir, "booker.md"))
	require.NoError(t, err)
	assert.Contains(t, string(booker), "## Roster")
	assert.Contains(t, string(booker), "![Roster](/screenshots/roster.png)")

	assert.FileExists(t, filepath.Join(dir, config.DefaultPagesDir, "league-office.md"))
	assert.FileExists(t, filepath.Join(dir, config.DefaultAssetsDir, "standings.png"))
}

func TestRender_MissingManifest(t *testing.T) {
	_, err := runCLI(t, "--root", t.TempDir(), "render")
	require.Error(t, err)
	assert.Equal(t, errors.ExitMissingInput, exitCode(err))
}

func TestPublish_MissingBuildOutput(t *testing.T) {
	dir := newProject(t)

	_, err := runCLI(t, "--root", dir, "publish")
	require.Error(t, err)
	assert.Equal(t, errors.ExitBuild, exitCode(err))
	assert.NoDirExists(t, filepath.Join(dir, config.DefaultPublishTargets[0]))
}

func TestGenerate_SkipBuildPublishesExistingOutput(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, config.DefaultSiteOutputDir, "index.html"), "<html></html>")

	_, err := runCLI(t, "--root", dir, "generate", "--skip-build")
	require.NoError(t, err)
	for _, target := range config.DefaultPublishTargets {
		assert.FileExists(t, filepath.Join(dir, target, "index.html"))
		assert.FileExists(t, filepath.Join(dir, target, config.DefaultMarker))
	}
}

func TestHistory_ListsRecordedRuns(t *testing.T) {
	dir := newProject(t)
	writeFile(t, filepath.Join(dir, "featuredocs.yaml"), "history:\n  enabled: true\n")

	_, err := runCLI(t, "--root", dir, "render")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.DefaultHistoryPath))

	out, err := runCLI(t, "--root", dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, "render")
	assert.Contains(t, out, "success")
}

func TestHistory_NoDatabase(t *testing.T) {
	out, err := runCLI(t, "--root", t.TempDir(), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

func TestMetricsFile(t *testing.T) {
	dir := newProject(t)
	prom := filepath.Join(dir, "metrics.prom")

	_, err := runCLI(t, "--root", dir, "--metrics-file", prom, "render")
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "featuredocs_")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "--root", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")

	cfg, err := config.Load(filepath.Join(dir, "featuredocs.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.History.Enabled)

	_, err = runCLI(t, "--root", dir, "init")
	require.Error(t, err)
	assert.Equal(t, errors.ExitConfig, exitCode(err))

	_, err = runCLI(t, "--root", dir, "init", "--force")
	require.NoError(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	for _, name := range []string{"custom.yaml", DefaultConfigFile} {
		t.Run(name, func(t *testing.T) {
			dir := newProject(t)
			_, err := runCLI(t, "--root", dir, "--config", name, "render")
			require.Error(t, err)
			assert.Equal(t, errors.ExitConfig, exitCode(err))
			assert.NoFileExists(t, filepath.Join(dir, config.DefaultPagesDir, "booker.md"))

			_, err = runCLI(t, "--root", dir, "-c", name, "render")
			require.Error(t, err)
		})
	}
}

func TestImplicitConfigFallsBackToDefaults(t *testing.T) {
	dir := newProject(t)
	_, err := runCLI(t, "--root", dir, "render")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.DefaultPagesDir, "booker.md"))
}

func TestWatchPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Pages.Template = "docs/page.hbs"

	assert.Equal(t, []string{
		filepath.Join("/p", config.DefaultManifestPath),
		filepath.Join("/p", config.DefaultScreenshotsDir),
		"/p/docs/page.hbs",
	}, watchPaths("/p", cfg))

	ignored := ignoredPaths("/p", cfg)
	assert.Contains(t, ignored, filepath.Join("/p", config.DefaultPagesDir))
	assert.Contains(t, ignored, filepath.Join("/p", config.DefaultSiteOutputDir))
}
