package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// ComputePagesHash returns a deterministic hash over page file names and
// contents. Runs that render the same pages produce the same hash, which the
// run history uses to tell content changes from no-op rebuilds.
func ComputePagesHash(pages []Page) string {
	if len(pages) == 0 {
		h := sha256.Sum256([]byte("empty-page-set"))
		return hex.EncodeToString(h[:])
	}

	sorted := make([]Page, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })

	h := sha256.New()
	for _, p := range sorted {
		sum := sha256.Sum256(p.Content)
		h.Write([]byte(p.File))
		h.Write([]byte{0})
		h.Write(sum[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
