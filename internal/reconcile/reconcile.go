package reconcile

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/valyala/fastjson"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
)

// Action describes what happened to one entry.
type Action string

const (
	ActionPinned  Action = "pinned"
	ActionSynced  Action = "synced"
	ActionRemoved Action = "removed"
	ActionSeeded  Action = "seeded"
)

// Change is one modified entry.
type Change struct {
	Section string // dotted path of the map, e.g. "vaadin.dependencies"
	Name    string
	From    string // empty for seeded entries
	To      string // empty for removed entries
	Action  Action
}

// Changes lists modifications in the order they were applied.
type Changes []Change

const sectionOverrides = "overrides"

// Maps whose entries follow the pin table and allow-list.
var versionSections = [][]string{
	{"dependencies"},
	{"vaadin", "dependencies"},
}

// Maps scanned when overrides need seeding.
var seedSections = [][]string{
	{"dependencies"},
	{"devDependencies"},
	{"vaadin", "dependencies"},
	{"vaadin", "devDependencies"},
}

// Reconcile applies policy to a package.json document and returns the
// rewritten document. Key order is preserved, output uses two-space
// indentation with a trailing newline, and reconciling the output again
// yields no changes.
func Reconcile(doc []byte, target string, policy Policy) ([]byte, Changes, error) {
	if target == "" {
		return nil, nil, errors.UsageError("target version is required").Build()
	}

	var p fastjson.Parser
	root, err := p.ParseBytes(doc)
	if err != nil {
		return nil, nil, errors.MalformedInputError("package file is not valid JSON").WithCause(err).Build()
	}
	if root.Type() != fastjson.TypeObject {
		return nil, nil, errors.MalformedInputError("package file must be a JSON object").Build()
	}

	r := &reconciler{root: root, target: target, policy: policy}
	if err := r.run(); err != nil {
		return nil, nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, root.MarshalTo(nil), "", "  "); err != nil {
		return nil, nil, errors.InternalError("format package file").WithCause(err).Build()
	}
	out.WriteByte('\n')
	return out.Bytes(), r.changes, nil
}

type reconciler struct {
	root    *fastjson.Value
	arena   fastjson.Arena
	target  string
	policy  Policy
	changes Changes
}

func (r *reconciler) run() error {
	for _, path := range versionSections {
		obj, err := r.object(path)
		if err != nil {
			return err
		}
		r.applyVersions(joinPath(path), obj)
	}

	overrides, err := r.object([]string{sectionOverrides})
	if err != nil {
		return err
	}
	r.pruneOverrides(overrides)

	if overrides == nil || !r.hasNamespacedKey(overrides) {
		return r.seedOverrides(overrides)
	}
	return nil
}

// object returns the object at path, nil when absent, and an error when the
// value exists but is not an object.
func (r *reconciler) object(path []string) (*fastjson.Object, error) {
	v := r.root.Get(path...)
	if v == nil || v.Type() == fastjson.TypeNull {
		return nil, nil
	}
	if v.Type() != fastjson.TypeObject {
		return nil, errors.MalformedInputError("package file section must be an object").
			WithContext("section", joinPath(path)).
			Build()
	}
	return v.GetObject(), nil
}

func (r *reconciler) applyVersions(section string, obj *fastjson.Object) {
	if obj == nil {
		return
	}
	var updates []Change
	obj.Visit(func(key []byte, v *fastjson.Value) {
		name := string(key)
		want, action, ok := r.policy.versionFor(name, r.target)
		if !ok {
			return
		}
		if have := valueString(v); have != want {
			updates = append(updates, Change{Section: section, Name: name, From: have, To: want, Action: action})
		}
	})
	for _, c := range updates {
		obj.Set(c.Name, r.arena.NewString(c.To))
	}
	r.changes = append(r.changes, updates...)
}

// pruneOverrides drops namespaced overrides that are not pinned and resets
// pinned ones to their pin. Names outside the namespace are never removed.
func (r *reconciler) pruneOverrides(obj *fastjson.Object) {
	if obj == nil {
		return
	}
	var removed, pinned []Change
	obj.Visit(func(key []byte, v *fastjson.Value) {
		name := string(key)
		have := valueString(v)
		if pin, ok := r.policy.Pinned(name); ok {
			if have != pin {
				pinned = append(pinned, Change{Section: sectionOverrides, Name: name, From: have, To: pin, Action: ActionPinned})
			}
			return
		}
		if r.policy.InNamespace(name) {
			removed = append(removed, Change{Section: sectionOverrides, Name: name, From: have, Action: ActionRemoved})
		}
	})
	for _, c := range removed {
		obj.Del(c.Name)
	}
	for _, c := range pinned {
		obj.Set(c.Name, r.arena.NewString(c.To))
	}
	r.changes = append(r.changes, removed...)
	r.changes = append(r.changes, pinned...)
}

func (r *reconciler) hasNamespacedKey(obj *fastjson.Object) bool {
	found := false
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		if r.policy.InNamespace(string(key)) {
			found = true
		}
	})
	return found
}

// seedOverrides adds pinned names found in any dependency map, sorted by name.
func (r *reconciler) seedOverrides(overrides *fastjson.Object) error {
	seen := make(map[string]struct{})
	for _, path := range seedSections {
		obj, err := r.object(path)
		if err != nil {
			return err
		}
		if obj == nil {
			continue
		}
		obj.Visit(func(key []byte, _ *fastjson.Value) {
			if _, ok := r.policy.Pinned(string(key)); ok {
				seen[string(key)] = struct{}{}
			}
		})
	}
	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	if overrides == nil {
		r.root.GetObject().Set(sectionOverrides, r.arena.NewObject())
		overrides = r.root.GetObject(sectionOverrides)
	}
	for _, name := range names {
		pin := r.policy.Pins[name]
		if existing := overrides.Get(name); existing != nil {
			// Already pinned by pruneOverrides.
			continue
		}
		overrides.Set(name, r.arena.NewString(pin))
		r.changes = append(r.changes, Change{Section: sectionOverrides, Name: name, To: pin, Action: ActionSeeded})
	}
	return nil
}

// valueString returns a string value unquoted and anything else as JSON.
func valueString(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

func joinPath(path []string) string {
	out := path[0]
	for _, p := range path[1:] {
		out += "." + p
	}
	return out
}
