package recipeapi

import (
	"context"
	"iter"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/logging"
)

// Page is one batch of the catalog.
type Page struct {
	Start, End int
	Recipes    []Recipe
}

// Pages yields the catalog page by page, starting at row 1. A page is only
// requested after the previous one was decoded. A page holding fewer than
// PageSize rows ends the sequence, so a catalog whose size is an exact
// multiple of PageSize costs one extra empty request. The sequence stops
// after yielding an error.
func (c *Client) Pages(ctx context.Context) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		start := 1
		for {
			end := start + c.pageSize - 1
			recipes, err := c.FetchPage(ctx, start, end)
			if err != nil {
				yield(Page{Start: start, End: end}, err)
				return
			}
			if !yield(Page{Start: start, End: end, Recipes: recipes}, nil) {
				return
			}
			if len(recipes) != c.pageSize {
				return
			}
			start += c.pageSize
		}
	}
}

// FetchAll drains Pages and returns every recipe in catalog order. On
// failure the rows gathered so far are dropped and only the error is returned.
func (c *Client) FetchAll(ctx context.Context) ([]Recipe, error) {
	began := time.Now()
	var all []Recipe
	pages := 0
	for page, err := range c.Pages(ctx) {
		if err != nil {
			logging.Warn().Err(err).Int("pages", pages).Msg("catalog fetch aborted")
			return nil, err
		}
		pages++
		all = append(all, page.Recipes...)
	}

	logging.Info().
		Int("recipes", len(all)).
		Int("pages", pages).
		Dur("took", time.Since(began)).
		Msg("catalog fetched")
	return all, nil
}
