package docs

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
)

var lower = cases.Lower(language.Und)

var slugReplacer = strings.NewReplacer(" ", "-", "/", "-", `\`, "-")

// Slug lower-cases a category name and replaces spaces with hyphens. Path
// separators become hyphens too so a page never lands outside its directory.
func Slug(category string) string {
	return slugReplacer.Replace(lower.String(category))
}

// PageFileName is the Markdown file name for a category.
func PageFileName(category string) string {
	return Slug(category) + ".md"
}

// CheckSlugCollisions fails when two distinct categories map to the same page
// file, which would otherwise silently overwrite one of them.
func CheckSlugCollisions(groups []CategoryGroup) error {
	seen := make(map[string]string, len(groups))
	for _, g := range groups {
		name := PageFileName(g.Name)
		if prev, ok := seen[name]; ok && prev != g.Name {
			return errors.MalformedInputError("categories map to the same page").
				WithContext("page", name).
				WithContext("first", prev).
				WithContext("second", g.Name).
				Build()
		}
		seen[name] = g.Name
	}
	return nil
}
