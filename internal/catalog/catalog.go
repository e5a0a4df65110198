// Package catalog holds the fetched recipe catalog for the lifetime of the
// process.
package catalog

import (
	"sort"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Catalog is an immutable snapshot of every recipe the source returned.
// Callers must not modify the slices it hands out.
type Catalog struct {
	recipes   []recipeapi.Recipe
	bySeq     map[string]int
	fetchedAt time.Time
}

// New wraps recipes, which the catalog takes ownership of.
func New(recipes []recipeapi.Recipe, fetchedAt time.Time) *Catalog {
	bySeq := make(map[string]int, len(recipes))
	for i, r := range recipes {
		if _, dup := bySeq[r.Seq]; !dup {
			bySeq[r.Seq] = i
		}
	}
	return &Catalog{recipes: recipes, bySeq: bySeq, fetchedAt: fetchedAt}
}

func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Recipes returns the recipes in source order.
func (c *Catalog) Recipes() []recipeapi.Recipe {
	return c.recipes
}

func (c *Catalog) FetchedAt() time.Time {
	return c.fetchedAt
}

// Get looks a recipe up by its server sequence id.
func (c *Catalog) Get(seq string) (recipeapi.Recipe, bool) {
	i, ok := c.bySeq[seq]
	if !ok {
		return recipeapi.Recipe{}, false
	}
	return c.recipes[i], true
}

// Categories returns the distinct category tags in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.recipes {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// Search ranks recipe names against term by fuzzy distance, closest first.
// Ties keep catalog order. A limit of zero or less returns every hit.
func (c *Catalog) Search(term string, limit int) []recipeapi.Recipe {
	if term == "" || len(c.recipes) == 0 {
		return nil
	}

	names := make([]string, len(c.recipes))
	for i, r := range c.recipes {
		names[i] = r.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(term, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	out := make([]recipeapi.Recipe, len(ranks))
	for i, rk := range ranks {
		out[i] = c.recipes[rk.OriginalIndex]
	}
	return out
}
