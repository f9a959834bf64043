package frontmatter

import (
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
)

// Keys that describe a page rather than its content. They are left out of
// the fingerprint so the fingerprint only moves when the page changes.
const (
	KeyUID      = "uid"
	KeyRevision = "revision"
)

// pageNamespace scopes name-based page UIDs.
var pageNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("featuredocs:page"))

// PageUID returns a stable UUID for a page key (the category name), so the
// same category always gets the same uid.
func PageUID(key string) string {
	return uuid.NewSHA1(pageNamespace, []byte(key)).String()
}

// Fingerprint computes the mdfp content fingerprint over fields and body.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case mdfp.FingerprintField, KeyUID, KeyRevision:
			continue
		}
		hashed[k] = v
	}

	raw, err := Serialize(hashed)
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(raw), "\n"), string(body)), nil
}

// WithFingerprint returns a copy of fields with the fingerprint key set.
func WithFingerprint(fields map[string]any, body []byte) (map[string]any, error) {
	fp, err := Fingerprint(fields, body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[mdfp.FingerprintField] = fp
	return out, nil
}
