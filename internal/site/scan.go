package site

import (
	"io"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

// DanglingImage is an <img> in the built site whose screenshot is missing.
type DanglingImage struct {
	Page string // HTML file relative to the site root, slash separated
	Src  string
}

// ScanBuiltSite parses every HTML file below dir and reports image references
// under prefix (for example "/screenshots/") that have no file in dir.
func ScanBuiltSite(afs fsys.FS, dir, prefix string) ([]DanglingImage, error) {
	var dangling []DanglingImage

	err := afero.Walk(afs, dir, func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(p), ".html") {
			return nil
		}

		f, err := afs.Open(p)
		if err != nil {
			return err
		}
		srcs, err := imageSources(f)
		_ = f.Close()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		for _, src := range srcs {
			if !strings.HasPrefix(src, prefix) {
				continue
			}
			target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(path.Clean(src), "/")))
			ok, err := fsys.Exists(afs, target)
			if err != nil {
				return err
			}
			if !ok {
				dangling = append(dangling, DanglingImage{Page: filepath.ToSlash(rel), Src: src})
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "scan built site").
			WithSeverity(errors.SeverityWarning).
			WithContext("path", dir).
			Build()
	}

	sort.SliceStable(dangling, func(i, j int) bool { return dangling[i].Page < dangling[j].Page })
	return dangling, nil
}

// imageSources returns the path part of every <img src> in document order.
func imageSources(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key != "src" || a.Val == "" {
					continue
				}
				if u, err := url.Parse(a.Val); err == nil && u.Host == "" {
					out = append(out, u.Path)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}
