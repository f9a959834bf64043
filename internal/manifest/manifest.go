// Package manifest reads the feature manifest written by the documentation
// E2E tests.
package manifest

import (
	"encoding/json"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

// Feature is one documented screen. Identity is positional.
type Feature struct {
	ID          string  `json:"id,omitempty"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImagePath   string  `json:"imagePath"`
	Order       float64 `json:"order,omitempty"`
}

// ImageName is the file name of ImagePath with every directory stripped.
func (f Feature) ImageName() string {
	p := strings.ReplaceAll(f.ImagePath, `\`, "/")
	return path.Base(p)
}

// Manifest is the root document.
type Manifest struct {
	Features []Feature `json:"features"`
}

const (
	msgNotFound  = "manifest not found"
	msgMalformed = "manifest is malformed"
)

// Sentinels for errors.Is checks.
var (
	ErrNotFound  = errors.MissingInputError(msgNotFound).Build()
	ErrMalformed = errors.MalformedInputError(msgMalformed).Build()
)

// Read loads and validates the manifest at path.
func Read(fs fsys.FS, path string) (*Manifest, error) {
	exists, err := fsys.Exists(fs, path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot stat manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	if !exists {
		return nil, errors.MissingInputError(msgNotFound).WithContext("path", path).Build()
	}

	data, err := fsys.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot read manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return Parse(path, data)
}

// Parse decodes and schema-validates raw manifest bytes. name is only used
// for error context.
func Parse(name string, data []byte) (*Manifest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryMalformedInput, msgMalformed).
			Fatal().
			WithContext("path", name).
			Build()
	}

	if violations := validate(doc); len(violations) > 0 {
		return nil, errors.MalformedInputError(msgMalformed).
			WithContext("path", name).
			WithContext("violations", strings.Join(violations, "; ")).
			Build()
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapError(err, errors.CategoryMalformedInput, msgMalformed).
			Fatal().
			WithContext("path", name).
			Build()
	}
	return &m, nil
}

// MissingImages returns the features whose screenshot is not present in
// screenshotsDir.
func (m *Manifest) MissingImages(fs fsys.FS, screenshotsDir string) []Feature {
	var missing []Feature
	for _, f := range m.Features {
		ok, err := fsys.Exists(fs, filepath.Join(screenshotsDir, f.ImageName()))
		if err != nil || !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
