package reconcile

import (
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

// Result reports a file-level reconciliation.
type Result struct {
	Path    string
	Changes Changes
	Written bool
}

// Run reconciles the package file at path in place. With dryRun the file is
// left untouched. A missing file is a usage error: the command was pointed at
// the wrong place.
func Run(fs fsys.FS, path, target string, policy Policy, dryRun bool) (Result, error) {
	res := Result{Path: path}

	ok, err := fsys.Exists(fs, path)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "stat package file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	if !ok {
		return res, errors.UsageError("package file not found").WithContext("path", path).Build()
	}

	doc, err := fsys.ReadFile(fs, path)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "read package file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	out, changes, err := Reconcile(doc, target, policy)
	if err != nil {
		return res, err
	}
	res.Changes = changes
	if dryRun {
		return res, nil
	}

	if err := fsys.WriteFile(fs, path, out); err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "write package file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	res.Written = true
	return res, nil
}
