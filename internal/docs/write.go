package docs

import (
	"path/filepath"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

// Page is a rendered category page.
type Page struct {
	Category string
	File     string // file name inside the output directory
	Path     string // full path written
	Content  []byte
}

// RenderPages renders every group after checking for file name collisions.
// Nothing is rendered when two categories collide.
func RenderPages(groups []CategoryGroup, opts RenderOptions) ([]Page, error) {
	if err := CheckSlugCollisions(groups); err != nil {
		return nil, err
	}
	pages := make([]Page, 0, len(groups))
	for _, g := range groups {
		content, err := RenderPage(g, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Category: g.Name, File: PageFileName(g.Name), Content: content})
	}
	return pages, nil
}

// WritePages renders all groups and writes them into dir, creating it.
// Existing pages for other categories are left alone.
func WritePages(fs fsys.FS, dir string, groups []CategoryGroup, opts RenderOptions) ([]Page, error) {
	pages, err := RenderPages(groups, opts)
	if err != nil {
		return nil, err
	}
	return SavePages(fs, dir, pages)
}

// SavePages writes already rendered pages into dir and sets their Path.
func SavePages(fs fsys.FS, dir string, pages []Page) ([]Page, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create pages directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}
	for i := range pages {
		pages[i].Path = filepath.Join(dir, pages[i].File)
		if err := fsys.WriteFile(fs, pages[i].Path, pages[i].Content); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "write page").
				Fatal().
				WithContext("path", pages[i].Path).
				Build()
		}
	}
	return pages, nil
}
