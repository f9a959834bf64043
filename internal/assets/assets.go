// Package assets copies screenshots into the static site's public folder.
package assets

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

// Filter selects files by base name. An empty Include matches everything;
// Exclude wins over Include.
type Filter struct {
	Include []string
	Exclude []string
}

// Match reports whether name passes the filter. Invalid patterns never match.
func (f Filter) Match(name string) bool {
	for _, pat := range f.Exclude {
		if ok, _ := doublestar.Match(pat, name); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pat := range f.Include {
		if ok, _ := doublestar.Match(pat, name); ok {
			return true
		}
	}
	return false
}

// Validate checks every pattern compiles.
func (f Filter) Validate() error {
	for _, pat := range append(append([]string(nil), f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(pat) {
			return errors.ConfigError("invalid asset pattern").WithContext("pattern", pat).Build()
		}
	}
	return nil
}

// SyncResult summarises a Sync call.
type SyncResult struct {
	Skipped  bool     // source directory was missing
	Copied   []string // base names copied, in directory order
	Filtered []string // base names rejected by the filter
}

// Sync copies the regular files directly inside src into dst. Subdirectories
// are ignored, existing files are overwritten and files only present in dst
// are kept. A missing src is not an error.
func Sync(fs fsys.FS, src, dst string, filter Filter) (SyncResult, error) {
	var res SyncResult

	ok, err := fsys.DirExists(fs, src)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "stat screenshots directory").
			Fatal().
			WithContext("path", src).
			Build()
	}
	if !ok {
		res.Skipped = true
		return res, nil
	}

	if err := fs.MkdirAll(dst, 0o755); err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "create asset directory").
			Fatal().
			WithContext("path", dst).
			Build()
	}

	entries, err := afero.ReadDir(fs, src)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "list screenshots").
			Fatal().
			WithContext("path", src).
			Build()
	}

	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		name := entry.Name()
		if !filter.Match(name) {
			res.Filtered = append(res.Filtered, name)
			continue
		}
		if err := fsys.CopyFile(fs, filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "copy screenshot").
				Fatal().
				WithContext("file", name).
				Build()
		}
		res.Copied = append(res.Copied, name)
	}
	return res, nil
}
