package match

import "github.com/Another0Noob/fridge-recipes/internal/recipeapi"

// Query selects recommended recipes.
type Query struct {
	Ingredients IngredientSet
	// Category must equal a recipe's category tag. Empty means any category.
	Category string
}

// Accepts reports whether recipe satisfies both the category and the
// ingredient rule.
func (q Query) Accepts(recipe recipeapi.Recipe) bool {
	if q.Category != "" && recipe.Category != q.Category {
		return false
	}
	return Matches(recipe, q.Ingredients)
}

// Filter keeps the recipes q accepts, in their original order.
func Filter(recipes []recipeapi.Recipe, q Query) []recipeapi.Recipe {
	out := make([]recipeapi.Recipe, 0)
	for _, r := range recipes {
		if q.Accepts(r) {
			out = append(out, r)
		}
	}
	return out
}
