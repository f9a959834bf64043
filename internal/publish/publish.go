// Package publish copies a built site into the directories that serve it.
package publish

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
)

// MsgMissingBuildOutput distinguishes a missing build from a failed one.
const MsgMissingBuildOutput = "site build output missing"

// ErrMissingBuildOutput is returned when the built site directory is absent.
var ErrMissingBuildOutput = errors.BuildError(MsgMissingBuildOutput).Build()

// Result lists what Publish wrote.
type Result struct {
	Marker  string
	Targets []string
}

// Publish writes an empty marker file at the root of builtDir and then copies
// the tree into each target in order. Targets are created as needed, existing
// files are overwritten and nothing is deleted. When builtDir is missing no
// target is touched.
func Publish(fs fsys.FS, builtDir string, targets []string, marker string) (Result, error) {
	var res Result

	ok, err := fsys.DirExists(fs, builtDir)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "stat build output").
			Fatal().
			WithContext("path", builtDir).
			Build()
	}
	if !ok {
		return res, errors.BuildError(MsgMissingBuildOutput).WithContext("path", builtDir).Build()
	}

	if marker != "" {
		res.Marker = filepath.Join(builtDir, marker)
		if err := fsys.WriteFile(fs, res.Marker, nil); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "write publish marker").
				Fatal().
				WithContext("path", res.Marker).
				Build()
		}
	}

	for _, target := range targets {
		if err := fsys.CopyDir(fs, builtDir, target); err != nil {
			return res, errors.WrapError(err, errors.CategoryFileSystem, "publish site").
				Fatal().
				WithContext("target", target).
				Build()
		}
		res.Targets = append(res.Targets, target)
		slog.Info("Published site", logfields.Path(target))
	}
	return res, nil
}
