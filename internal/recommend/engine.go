// Package recommend keeps the current recipe recommendations for one user
// in step with their ingredients and selected category.
package recommend

import (
	"context"
	"sync"

	"github.com/Another0Noob/fridge-recipes/internal/catalog"
	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/Another0Noob/fridge-recipes/internal/match"
	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/rs/zerolog"
)

// State of an Engine.
type State int

const (
	// Idle: the catalog has not been requested.
	Idle State = iota
	// Fetching: a catalog request is in flight; recommendations are unchanged.
	Fetching
	// Ready: the catalog is loaded and every query change recomputes.
	Ready
	// FetchFailed: the last catalog request failed. Request retries.
	FetchFailed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Ready:
		return "ready"
	case FetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// CatalogProvider is satisfied by *catalog.Cache.
type CatalogProvider interface {
	Get(ctx context.Context) (*catalog.Catalog, error)
}

// Status is a point-in-time view of an Engine.
type Status struct {
	State State
	Err   error
	Query match.Query
	Count int
}

// Engine recomputes recommendations synchronously whenever the query
// changes while the catalog is loaded. It is safe for concurrent use.
type Engine struct {
	provider CatalogProvider
	log      zerolog.Logger

	mu      sync.Mutex
	state   State
	err     error
	catalog *catalog.Catalog
	query   match.Query
	result  []recipeapi.Recipe
	done    chan struct{} // closed when the current fetch resolves

	subsMu sync.Mutex
	subs   map[chan struct{}]struct{}
}

func New(provider CatalogProvider) *Engine {
	return &Engine{
		provider: provider,
		log:      logging.With().Str("component", "recommend").Logger(),
		subs:     make(map[chan struct{}]struct{}),
	}
}

// Request starts loading the catalog when the engine is Idle or
// FetchFailed and returns without waiting. In any other state it does nothing.
func (e *Engine) Request(ctx context.Context) {
	e.mu.Lock()
	if e.state != Idle && e.state != FetchFailed {
		e.mu.Unlock()
		return
	}
	e.setStateLocked(Fetching)
	e.err = nil
	done := make(chan struct{})
	e.done = done
	e.mu.Unlock()
	e.notify()

	go e.load(ctx, done)
}

func (e *Engine) load(ctx context.Context, done chan struct{}) {
	defer close(done)

	cat, err := e.provider.Get(ctx)

	e.mu.Lock()
	if err != nil {
		e.err = err
		e.setStateLocked(FetchFailed)
		e.mu.Unlock()
		e.log.Error().Err(err).Msg("catalog unavailable")
		e.notify()
		return
	}
	e.catalog = cat
	e.setStateLocked(Ready)
	e.recomputeLocked()
	e.mu.Unlock()
	e.notify()
}

// Wait blocks until the in-flight fetch, if any, resolves or ctx ends.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load requests the catalog and waits for the outcome. It returns the
// fetch error when the engine ends up in FetchFailed.
func (e *Engine) Load(ctx context.Context) error {
	e.Request(ctx)
	if err := e.Wait(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// SetCategory selects the category label. Empty selects every category.
func (e *Engine) SetCategory(label string) {
	e.mu.Lock()
	e.query.Category = label
	ready := e.recomputeLocked()
	e.mu.Unlock()
	if ready {
		e.notify()
	}
}

// SetIngredients replaces the ingredient set.
func (e *Engine) SetIngredients(names ...string) {
	set := match.NewIngredientSet(names...)
	e.mu.Lock()
	e.query.Ingredients = set
	ready := e.recomputeLocked()
	e.mu.Unlock()
	if ready {
		e.notify()
	}
}

// Current returns a copy of the latest recommendations in catalog order.
func (e *Engine) Current() []recipeapi.Recipe {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]recipeapi.Recipe(nil), e.result...)
}

// Status reports the state, the last fetch error and the active query.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{State: e.state, Err: e.err, Query: e.query, Count: len(e.result)}
}

// Query returns the active category and ingredient selection.
func (e *Engine) Query() match.Query {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

// Catalog returns the loaded catalog, or nil before Ready.
func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog
}

// recomputeLocked rebuilds the result when Ready and reports whether it ran.
func (e *Engine) recomputeLocked() bool {
	if e.state != Ready {
		return false
	}
	e.result = match.Filter(e.catalog.Recipes(), e.query)
	e.log.Debug().
		Int("ingredients", e.query.Ingredients.Len()).
		Str("category", e.query.Category).
		Int("recommended", len(e.result)).
		Msg("recommendations recomputed")
	return true
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	e.log.Debug().Stringer("from", e.state).Stringer("to", s).Msg("state transition")
	e.state = s
}

// Subscribe returns a channel that receives a signal after every state change
// or recompute. Signals coalesce, so read Status or Current after each one.
// Call the returned func to unsubscribe.
func (e *Engine) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	e.subsMu.Lock()
	e.subs[ch] = struct{}{}
	e.subsMu.Unlock()

	return ch, func() {
		e.subsMu.Lock()
		delete(e.subs, ch)
		e.subsMu.Unlock()
	}
}

func (e *Engine) notify() {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}
