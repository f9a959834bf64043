// Package git reads the project's current revision so generated pages can
// record which commit they were built from.
package git

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = git.ErrRepositoryNotExists

// Head returns the commit hash HEAD points at, searching parent directories
// for the repository like the git CLI does. An empty hash with a nil error
// means the repository has no commits yet.
func Head(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", err
	}
	return ref.Hash().String(), nil
}

// Revision is Head without the error: outside a repository, or on any read
// problem, it returns "". Revisions are decoration, never a reason to fail.
func Revision(dir string) string {
	h, err := Head(dir)
	if err != nil {
		return ""
	}
	return h
}

// Short abbreviates a commit hash to seven characters.
func Short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
