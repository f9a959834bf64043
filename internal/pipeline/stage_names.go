package pipeline

// StageName is a strongly-typed identifier for a pipeline stage.
type StageName string

// Canonical stage names.
const (
	StageLoadManifest StageName = "load_manifest"
	StageRenderPages  StageName = "render_pages"
	StageSyncAssets   StageName = "sync_assets"
	StageRunSiteBuild StageName = "run_site_build"
	StageScanSite     StageName = "scan_site"
	StagePublish      StageName = "publish"
	StageNotify       StageName = "notify"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Mode selects which stages a run executes.
type Mode string

const (
	// ModeGenerate runs the whole pipeline.
	ModeGenerate Mode = "generate"
	// ModeRender writes pages and screenshots without building the site.
	ModeRender Mode = "render"
	// ModePublish publishes an existing build.
	ModePublish Mode = "publish"
)

// stagesFor returns the ordered stage list for a mode.
func stagesFor(mode Mode) []StageDef {
	load := StageDef{StageLoadManifest, stageLoadManifest}
	render := StageDef{StageRenderPages, stageRenderPages}
	sync := StageDef{StageSyncAssets, stageSyncAssets}
	build := StageDef{StageRunSiteBuild, stageRunSiteBuild}
	scan := StageDef{StageScanSite, stageScanSite}
	pub := StageDef{StagePublish, stagePublish}
	notify := StageDef{StageNotify, stageNotify}

	switch mode {
	case ModeRender:
		return []StageDef{load, render, sync}
	case ModePublish:
		return []StageDef{pub, notify}
	default:
		return []StageDef{load, render, sync, build, scan, pub, notify}
	}
}
