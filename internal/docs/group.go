// Package docs turns manifest features into one Markdown page per category.
package docs

import (
	"cmp"
	"slices"

	"git.home.luguber.info/inful/featuredocs/internal/manifest"
)

// CategoryGroup holds the features of one category in page order.
type CategoryGroup struct {
	Name     string
	Position int // 1-based first-appearance position of the category
	Features []manifest.Feature
}

// GroupByCategory partitions features by category. Groups come back in the
// order their category first appears; features inside a group are stably
// sorted by Order, so equal orders keep manifest order.
func GroupByCategory(features []manifest.Feature) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup

	for _, f := range features {
		i, ok := index[f.Category]
		if !ok {
			i = len(groups)
			index[f.Category] = i
			groups = append(groups, CategoryGroup{Name: f.Category, Position: i + 1})
		}
		groups[i].Features = append(groups[i].Features, f)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Features, func(a, b manifest.Feature) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}
	return groups
}
