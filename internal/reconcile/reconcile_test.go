package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/fsys"
)

var testPolicy = Policy{
	Namespace: "@x/",
	Pins:      map[string]string{"@x/a": "1.2.3"},
}

func TestReconcile_PinsAndPrunes(t *testing.T) {
	doc := `{
  "name": "app",
  "dependencies": {
    "@x/a": "1.0.0",
    "@x/c": "24.0.0",
    "lit": "3.0.0"
  },
  "overrides": {
    "@x/b": "9.9.9",
    "lit": "3.0.0"
  }
}`
	out, changes, err := Reconcile([]byte(doc), "25.0.0", testPolicy)
	require.NoError(t, err)

	want := `{
  "name": "app",
  "dependencies": {
    "@x/a": "1.2.3",
    "@x/c": "24.0.0",
    "lit": "3.0.0"
  },
  "overrides": {
    "lit": "3.0.0",
    "@x/a": "1.2.3"
  }
}
`
	assert.Equal(t, want, string(out))
	assert.Equal(t, Changes{
		{Section: "dependencies", Name: "@x/a", From: "1.0.0", To: "1.2.3", Action: ActionPinned},
		{Section: "overrides", Name: "@x/b", From: "9.9.9", Action: ActionRemoved},
		{Section: "overrides", Name: "@x/a", To: "1.2.3", Action: ActionSeeded},
	}, changes)
}

func TestReconcile_SeedsEmptyOverrides(t *testing.T) {
	doc := `{"dependencies":{"@x/a":"1.0.0"},"overrides":{}}`
	out, _, err := Reconcile([]byte(doc), "25.0.0", testPolicy)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dependencies":{"@x/a":"1.2.3"},"overrides":{"@x/a":"1.2.3"}}`, string(out))
}

func TestReconcile_SeedsMissingOverridesFromNestedMaps(t *testing.T) {
	policy := Policy{
		Namespace: "@x/",
		Pins:      map[string]string{"@x/a": "1.2.3", "@x/d": "2.0.7"},
	}
	doc := `{
  "devDependencies": {"@x/a": "1.0.0"},
  "vaadin": {"dependencies": {"@x/d": "2.0.0"}, "devDependencies": {}}
}`
	out, _, err := Reconcile([]byte(doc), "25.0.0", policy)
	require.NoError(t, err)
	assert.JSONEq(t, `{
  "devDependencies": {"@x/a": "1.0.0"},
  "vaadin": {"dependencies": {"@x/d": "2.0.7"}, "devDependencies": {}},
  "overrides": {"@x/a": "1.2.3", "@x/d": "2.0.7"}
}`, string(out))
}

func TestReconcile_AllowList(t *testing.T) {
	policy := Policy{
		Namespace: "@x/",
		Pins:      map[string]string{"@x/a": "1.2.3"},
		Allow:     []string{"@x/c", "@x/a"},
	}
	doc := `{"dependencies":{"@x/a":"1.0.0","@x/c":"24.0.0","@x/e":"24.0.0"},"overrides":{"@x/a":"1.2.3"}}`
	out, _, err := Reconcile([]byte(doc), "25.0.0", policy)
	require.NoError(t, err)
	// Pins win over the allow-list; unlisted names keep their version.
	assert.JSONEq(t, `{"dependencies":{"@x/a":"1.2.3","@x/c":"25.0.0","@x/e":"24.0.0"},"overrides":{"@x/a":"1.2.3"}}`, string(out))
}

func TestReconcile_Idempotent(t *testing.T) {
	doc := `{"name":"app","version":"1.0.0","dependencies":{"@x/a":"1.0.0","react":"18"},"overrides":{"@x/b":"1","other":{"nested":"2"}}}`
	once, _, err := Reconcile([]byte(doc), "25.0.0", testPolicy)
	require.NoError(t, err)

	twice, changes, err := Reconcile(once, "25.0.0", testPolicy)
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, string(once), string(twice))
}

func TestReconcile_NeverTouchesOtherFamilies(t *testing.T) {
	doc := `{"overrides":{"@y/b":"1.0.0","left-pad":"1.0.0"}}`
	out, changes, err := Reconcile([]byte(doc), "25.0.0", testPolicy)
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.JSONEq(t, doc, string(out))
}

func TestReconcile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		target   string
		category errors.ErrorCategory
	}{
		{"missing target", `{}`, "", errors.CategoryValidation},
		{"invalid json", `{`, "1", errors.CategoryMalformedInput},
		{"not an object", `[]`, "1", errors.CategoryMalformedInput},
		{"bad section", `{"dependencies":"x"}`, "1", errors.CategoryMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Reconcile([]byte(tt.doc), tt.target, testPolicy)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category))
		})
	}
}

func TestRun(t *testing.T) {
	fs := fsys.Memory()
	require.NoError(t, fsys.WriteFile(fs, "package.json", []byte(`{"dependencies":{"@x/a":"1.0.0"}}`)))

	res, err := Run(fs, "package.json", "25.0.0", testPolicy, false)
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.Len(t, res.Changes, 2)

	data, err := fsys.ReadFile(fs, "package.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"dependencies":{"@x/a":"1.2.3"},"overrides":{"@x/a":"1.2.3"}}`, string(data))
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestRun_DryRun(t *testing.T) {
	fs := fsys.Memory()
	orig := `{"dependencies":{"@x/a":"1.0.0"}}`
	require.NoError(t, fsys.WriteFile(fs, "package.json", []byte(orig)))

	res, err := Run(fs, "package.json", "25.0.0", testPolicy, true)
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.NotEmpty(t, res.Changes)

	data, err := fsys.ReadFile(fs, "package.json")
	require.NoError(t, err)
	assert.Equal(t, orig, string(data))
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(fsys.Memory(), "package.json", "25.0.0", testPolicy, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
