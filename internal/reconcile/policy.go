// Package reconcile rewrites dependency version pins in a package.json.
package reconcile

import (
	"slices"
	"strings"
)

// Policy decides which entries move and to what.
type Policy struct {
	// Namespace is the package family whose overrides are pruned, e.g. "@vaadin/".
	Namespace string
	// Pins map package names to versions that never follow the target.
	Pins map[string]string
	// Allow lists packages forced to the target version. Often empty.
	Allow []string
}

// InNamespace reports whether name belongs to the policy's package family.
func (p Policy) InNamespace(name string) bool {
	return p.Namespace != "" && strings.HasPrefix(name, p.Namespace)
}

// Pinned returns the pinned version for name.
func (p Policy) Pinned(name string) (string, bool) {
	v, ok := p.Pins[name]
	return v, ok
}

// Allowed reports whether name follows the target version.
func (p Policy) Allowed(name string) bool {
	return slices.Contains(p.Allow, name)
}

// versionFor applies rules one to three: pins win, allow-listed names take the
// target, everything else keeps its version.
func (p Policy) versionFor(name, target string) (string, Action, bool) {
	if v, ok := p.Pinned(name); ok {
		return v, ActionPinned, true
	}
	if p.Allowed(name) {
		return target, ActionSynced, true
	}
	return "", "", false
}
