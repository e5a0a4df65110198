// Package match decides which recipes fit a set of fridge ingredients.
package match

import (
	"strings"

	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MinIngredientMatches is how many user ingredients must show up in a
// recipe's ingredient list for it to match without a title hit. It does not
// scale with the size of the user's ingredient set.
const MinIngredientMatches = 5

// Normalize folds a name for case-insensitive comparison. NFKC first so
// full-width forms and decomposed Hangul compare equal to their usual
// composed spelling.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	// A Caser keeps state, so each call gets its own.
	return cases.Fold().String(s)
}

// IngredientSet is a de-duplicated list of normalized ingredient names, in
// first-seen order.
type IngredientSet struct {
	names []string
}

// NewIngredientSet normalizes names, dropping blanks and duplicates.
func NewIngredientSet(names ...string) IngredientSet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = Normalize(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return IngredientSet{names: out}
}

// Names returns the normalized names.
func (s IngredientSet) Names() []string {
	return append([]string(nil), s.names...)
}

func (s IngredientSet) Len() int {
	return len(s.names)
}

// Equal reports whether both sets hold the same names in the same order.
func (s IngredientSet) Equal(o IngredientSet) bool {
	if len(s.names) != len(o.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != o.names[i] {
			return false
		}
	}
	return true
}

// Tokens splits a raw ingredient list on commas and trims each piece.
// Empty pieces are dropped.
func Tokens(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Result explains a match decision.
type Result struct {
	// Count is the number of user ingredients found inside at least one
	// recipe ingredient token.
	Count int
	// TitleMatch is set when any user ingredient appears in the recipe name.
	TitleMatch bool
}

// Matched applies the decision rule.
func (r Result) Matched() bool {
	return r.Count >= MinIngredientMatches || r.TitleMatch
}

// Evaluate scores recipe against the user's ingredients.
func Evaluate(recipe recipeapi.Recipe, ingredients IngredientSet) Result {
	if ingredients.Len() == 0 {
		return Result{}
	}

	tokens := Tokens(recipe.Ingredients)
	for i, t := range tokens {
		tokens[i] = Normalize(t)
	}
	title := Normalize(recipe.Name)

	var res Result
	for _, name := range ingredients.names {
		for _, t := range tokens {
			if strings.Contains(t, name) {
				res.Count++
				break
			}
		}
		if !res.TitleMatch && strings.Contains(title, name) {
			res.TitleMatch = true
		}
	}
	return res
}

// Matches reports whether recipe should be recommended for ingredients.
func Matches(recipe recipeapi.Recipe, ingredients IngredientSet) bool {
	return Evaluate(recipe, ingredients).Matched()
}
