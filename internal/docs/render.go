package docs

import (
	"fmt"
	"path"
	"strings"

	"github.com/aymerick/raymond"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/frontmatter"
)

// ScreenshotURLPrefix is where the site serves synchronized screenshots.
const ScreenshotURLPrefix = "/screenshots/"

// DefaultTemplate renders the standard page layout. Triple-stash keeps
// manifest text out of HTML escaping; the output is Markdown.
const DefaultTemplate = `# {{{category}}}

{{{intro}}}

{{#each features}}## {{{title}}}

{{{description}}}

![{{{alt}}}]({{{image}}})

---

{{/each}}`

// RenderOptions controls page rendering.
type RenderOptions struct {
	// Template is a Handlebars template; empty means DefaultTemplate.
	Template string
	// FrontMatter prepends a YAML block with title, weight, uid and fingerprint.
	FrontMatter bool
	// Revision is recorded in front matter when non-empty.
	Revision string
}

// Intro is the sentence that opens every category page.
func Intro(category string) string {
	return fmt.Sprintf("This section covers the %s features.", category)
}

// ImageURL is the site URL of a feature's screenshot. Only the file name of
// the manifest path survives.
func ImageURL(imagePath string) string {
	return ScreenshotURLPrefix + path.Base(imagePath)
}

var altEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, "\r\n", " ", "\n", " ", "\r", " ")

// ImageAlt is a feature title made safe for the alt text of a Markdown image:
// brackets are escaped and line breaks folded so the link always parses.
func ImageAlt(title string) string {
	return altEscaper.Replace(strings.TrimSpace(title))
}

// RenderPage renders one category page.
func RenderPage(group CategoryGroup, opts RenderOptions) ([]byte, error) {
	src := opts.Template
	if src == "" {
		src = DefaultTemplate
	}
	tpl, err := raymond.Parse(src)
	if err != nil {
		return nil, errors.ConfigError("invalid page template").WithCause(err).Build()
	}

	body, err := tpl.Exec(templateContext(group))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "render page").
			Fatal().
			WithContext("category", group.Name).
			Build()
	}

	if !opts.FrontMatter {
		return []byte(body), nil
	}
	fields, err := pageFields(group, opts, []byte(body))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "build front matter").
			WithContext("category", group.Name).
			Build()
	}
	return frontmatter.Join(fields, []byte(body))
}

func templateContext(group CategoryGroup) map[string]any {
	features := make([]map[string]any, 0, len(group.Features))
	for _, f := range group.Features {
		features = append(features, map[string]any{
			"id":          f.ID,
			"title":       f.Title,
			"alt":         ImageAlt(f.Title),
			"description": f.Description,
			"image":       ImageURL(f.ImageName()),
			"order":       f.Order,
		})
	}
	return map[string]any{
		"category": group.Name,
		"intro":    Intro(group.Name),
		"slug":     Slug(group.Name),
		"features": features,
	}
}

func pageFields(group CategoryGroup, opts RenderOptions, body []byte) (map[string]any, error) {
	fields := map[string]any{
		"title":             group.Name,
		"weight":            group.Position,
		frontmatter.KeyUID: frontmatter.PageUID(group.Name),
	}
	if opts.Revision != "" {
		fields[frontmatter.KeyRevision] = opts.Revision
	}
	return frontmatter.WithFingerprint(fields, body)
}
