package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

func seed(t *testing.T, fs fsys.FS, files map[string]string) {
	t.Helper()
	for p, c := range files {
		require.NoError(t, fsys.WriteFile(fs, p, []byte(c)))
	}
}

func TestSync(t *testing.T) {
	fs := fsys.Memory()
	seed(t, fs, map[string]string{
		"docs/screenshots/a.png":        "A",
		"docs/screenshots/b.png":        "B",
		"docs/screenshots/nested/c.png": "C",
		"static/screenshots/old.png":    "OLD",
		"static/screenshots/a.png":      "stale",
	})

	res, err := Sync(fs, "docs/screenshots", "static/screenshots", Filter{})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, res.Copied)

	snap, err := fsys.Snapshot(fs, "static/screenshots")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a.png":   "A",
		"b.png":   "B",
		"old.png": "OLD",
	}, snap)
}

func TestSync_Idempotent(t *testing.T) {
	fs := fsys.Memory()
	seed(t, fs, map[string]string{"src/a.png": "A", "src/b.png": "B"})

	_, err := Sync(fs, "src", "dst", Filter{})
	require.NoError(t, err)
	first, err := fsys.Snapshot(fs, "dst")
	require.NoError(t, err)

	_, err = Sync(fs, "src", "dst", Filter{})
	require.NoError(t, err)
	second, err := fsys.Snapshot(fs, "dst")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// One new source file adds exactly that file.
	seed(t, fs, map[string]string{"src/c.png": "C"})
	res, err := Sync(fs, "src", "dst", Filter{})
	require.NoError(t, err)
	third, err := fsys.Snapshot(fs, "dst")
	require.NoError(t, err)

	added := map[string]string{}
	for name, content := range third {
		if old, ok := second[name]; !ok || old != content {
			added[name] = content
		}
	}
	assert.Equal(t, map[string]string{"c.png": "C"}, added)
	assert.Len(t, third, len(second)+1)
	assert.Contains(t, res.Copied, "c.png")
}

func TestSync_MissingSource(t *testing.T) {
	fs := fsys.Memory()
	res, err := Sync(fs, "nope", "dst", Filter{})
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	exists, err := fsys.DirExists(fs, "dst")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSync_Filter(t *testing.T) {
	fs := fsys.Memory()
	seed(t, fs, map[string]string{
		"src/a.png":       "A",
		"src/draft-b.png": "B",
		"src/notes.txt":   "N",
	})

	res, err := Sync(fs, "src", "dst", Filter{Include: []string{"*.png"}, Exclude: []string{"draft-*"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, res.Copied)
	assert.ElementsMatch(t, []string{"draft-b.png", "notes.txt"}, res.Filtered)
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{Include: []string{"*.png", "**/*.jpg"}}.Validate())
	assert.Error(t, Filter{Exclude: []string{"[unclosed"}}.Validate())
}
