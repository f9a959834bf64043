// Package markdown inspects generated pages with goldmark so the pipeline can
// check what it wrote instead of trusting string templates.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/featuredocs/internal/frontmatter"
)

// Outline is the structural summary of a page.
type Outline struct {
	Title      string   // first level-1 heading
	Sections   []string // level-2 headings in document order
	Images     []string // image destinations in document order
	Separators int      // thematic breaks
}

// Inspect parses page (front matter allowed) and returns its outline.
func Inspect(page []byte) (Outline, error) {
	_, body, _, err := frontmatter.Split(page)
	if err != nil {
		return Outline{}, err
	}

	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var out Outline
	err = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			title := plainText(node, body)
			switch node.Level {
			case 1:
				if out.Title == "" {
					out.Title = title
				}
			case 2:
				out.Sections = append(out.Sections, title)
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.Image:
			out.Images = append(out.Images, string(node.Destination))
		case *gmast.ThematicBreak:
			out.Separators++
		}
		return gmast.WalkContinue, nil
	})
	return out, err
}

// plainText concatenates the text segments below n.
func plainText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
