package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

func TestPublish(t *testing.T) {
	fs := fsys.Memory()
	require.NoError(t, fsys.WriteFile(fs, "site/public/index.html", []byte("home")))
	require.NoError(t, fsys.WriteFile(fs, "site/public/screenshots/a.png", []byte("A")))
	require.NoError(t, fsys.WriteFile(fs, "app/docs/keep.txt", []byte("keep")))
	require.NoError(t, fsys.WriteFile(fs, "app/docs/index.html", []byte("old")))

	res, err := Publish(fs, "site/public", []string{"build/docs", "app/docs"}, ".nojekyll")
	require.NoError(t, err)
	assert.Equal(t, []string{"build/docs", "app/docs"}, res.Targets)

	built, err := fsys.Snapshot(fs, "site/public")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		".nojekyll":         "",
		"index.html":        "home",
		"screenshots/a.png": "A",
	}, built)

	first, err := fsys.Snapshot(fs, "build/docs")
	require.NoError(t, err)
	assert.Equal(t, built, first)

	second, err := fsys.Snapshot(fs, "app/docs")
	require.NoError(t, err)
	assert.Equal(t, "home", second["index.html"])
	assert.Equal(t, "keep", second["keep.txt"])
	assert.Contains(t, second, ".nojekyll")
}

func TestPublish_MissingBuildOutput(t *testing.T) {
	fs := fsys.Memory()
	require.NoError(t, fsys.WriteFile(fs, "app/docs/index.html", []byte("old")))

	_, err := Publish(fs, "site/public", []string{"build/docs", "app/docs"}, ".nojekyll")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBuildOutput)
	assert.True(t, errors.HasCategory(err, errors.CategoryBuild))

	exists, err := fsys.DirExists(fs, "build/docs")
	require.NoError(t, err)
	assert.False(t, exists)

	snap, err := fsys.Snapshot(fs, "app/docs")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"index.html": "old"}, snap)
}

func TestPublish_NoMarker(t *testing.T) {
	fs := fsys.Memory()
	require.NoError(t, fsys.WriteFile(fs, "out/index.html", []byte("x")))

	res, err := Publish(fs, "out", []string{"t"}, "")
	require.NoError(t, err)
	assert.Empty(t, res.Marker)

	snap, err := fsys.Snapshot(fs, "t")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"index.html": "x"}, snap)
}
