package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

const sampleManifest = `{
  "features": [
    {"id": "booker-show-planning", "category": "Booker", "title": "Show Planning", "description": "Plan the next show.", "imagePath": "screenshots/show-planning.png", "order": 10},
    {"category": "League", "title": "Standings", "description": "League table.", "imagePath": "screenshots/standings.png"}
  ]
}`

func TestRead(t *testing.T) {
	fs := fsys.Memory()
	require.NoError(t, fsys.WriteFile(fs, "/proj/docs/manifest.json", []byte(sampleManifest)))

	m, err := Read(fs, "/proj/docs/manifest.json")
	require.NoError(t, err)
	require.Len(t, m.Features, 2)

	first := m.Features[0]
	assert.Equal(t, "booker-show-planning", first.ID)
	assert.Equal(t, "Booker", first.Category)
	assert.Equal(t, "Show Planning", first.Title)
	assert.InDelta(t, 10, first.Order, 0)
	assert.InDelta(t, 0, m.Features[1].Order, 0, "missing order defaults to 0")
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(fsys.Memory(), "/proj/docs/manifest.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		violation string
	}{
		{name: "syntax error", input: `{"features": [`},
		{name: "no features", input: `{}`, violation: "features"},
		{name: "features not array", input: `{"features": {}}`, violation: "features"},
		{name: "empty category", input: `{"features": [{"category": "", "title": "t", "description": "d", "imagePath": "a.png"}]}`, violation: "category"},
		{name: "missing title", input: `{"features": [{"category": "c", "description": "d", "imagePath": "a.png"}]}`, violation: "title"},
		{name: "order not a number", input: `{"features": [{"category": "c", "title": "t", "description": "d", "imagePath": "a.png", "order": "1"}]}`, violation: "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("manifest.json", []byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.True(t, errors.HasCategory(err, errors.CategoryMalformedInput))

			if tt.violation != "" {
				classified, ok := errors.AsClassified(err)
				require.True(t, ok)
				violations, _ := classified.Context().GetString("violations")
				assert.Contains(t, violations, tt.violation)
			}
		})
	}
}

func TestFeature_ImageName(t *testing.T) {
	tests := map[string]string{
		"a/b/c/shot1.png":        "shot1.png",
		"screenshots/shot2.png":  "shot2.png",
		"shot3.png":              "shot3.png",
		`screenshots\win\s4.png`: "s4.png",
	}
	for in, want := range tests {
		assert.Equal(t, want, Feature{ImagePath: in}.ImageName(), in)
	}
}

func TestMissingImages(t *testing.T) {
	fs := fsys.Memory()
	require.NoError(t, fsys.WriteFile(fs, "/proj/docs/screenshots/show-planning.png", []byte("png")))

	m, err := Parse("manifest.json", []byte(sampleManifest))
	require.NoError(t, err)

	missing := m.MissingImages(fs, "/proj/docs/screenshots")
	require.Len(t, missing, 1)
	assert.Equal(t, "Standings", missing[0].Title)
}
