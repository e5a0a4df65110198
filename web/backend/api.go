package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/catalog"
	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/Another0Noob/fridge-recipes/internal/recommend"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// RecommendAPI serves per-session recommendations over one shared catalog.
type RecommendAPI struct {
	cache    *catalog.Cache
	sessions *SessionManager
}

func NewRecommendAPI(cache *catalog.Cache) *RecommendAPI {
	return &RecommendAPI{
		cache:    cache,
		sessions: NewSessionManager(cache),
	}
}

// StartCleanup drops sessions older than maxAge every interval until ctx ends.
func (api *RecommendAPI) StartCleanup(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := api.sessions.CleanupStale(maxAge); n > 0 {
					logging.Info().Int("removed", n).Msg("stale sessions removed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StatusView is the JSON form of an engine status.
type StatusView struct {
	State       string   `json:"state"`
	Error       string   `json:"error,omitempty"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Count       int      `json:"count"`
}

func statusView(st recommend.Status) StatusView {
	v := StatusView{
		State:       st.State.String(),
		Category:    st.Query.Category,
		Ingredients: st.Query.Ingredients.Names(),
		Count:       st.Count,
	}
	if st.Err != nil {
		v.Error = st.Err.Error()
	}
	return v
}

// RecommendationsView is the body of GET /api/sessions/{id}/recommendations.
type RecommendationsView struct {
	Status  StatusView         `json:"status"`
	Recipes []recipeapi.Recipe `json:"recipes"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func (api *RecommendAPI) session(w http.ResponseWriter, r *http.Request) (*UserSession, bool) {
	session, ok := api.sessions.GetSession(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such session")
		return nil, false
	}
	return session, true
}

// HandleCreateSession creates a session and starts loading the catalog.
// POST /api/sessions
func (api *RecommendAPI) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := api.sessions.CreateSession()
	logging.Debug().Str("session", session.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

// HandleDeleteSession ends a session.
// DELETE /api/sessions/{id}
func (api *RecommendAPI) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !api.sessions.RemoveSession(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "no such session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// HandleLoad re-requests the catalog, typically after fetch_failed.
// POST /api/sessions/{id}/load
func (api *RecommendAPI) HandleLoad(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	session.Engine.Request(session.Ctx)
	writeJSON(w, http.StatusAccepted, statusView(session.Engine.Status()))
}

// HandleSetIngredients replaces the session's ingredient list.
// PUT /api/sessions/{id}/ingredients  {"ingredients": ["우유", "계란"]}
func (api *RecommendAPI) HandleSetIngredients(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	session.Engine.SetIngredients(req.Ingredients...)
	writeJSON(w, http.StatusOK, statusView(session.Engine.Status()))
}

// HandleSetCategory selects the session's category.
// PUT /api/sessions/{id}/category  {"category": "반찬"}
func (api *RecommendAPI) HandleSetCategory(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	session.Engine.SetCategory(req.Category)
	writeJSON(w, http.StatusOK, statusView(session.Engine.Status()))
}

// HandleRecommendations returns the current recommendations.
// GET /api/sessions/{id}/recommendations
func (api *RecommendAPI) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, RecommendationsView{
		Status:  statusView(session.Engine.Status()),
		Recipes: session.Engine.Current(),
	})
}

// HandleCategories lists catalog categories once the catalog is loaded.
// GET /api/categories
func (api *RecommendAPI) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories := []string{}
	cat, loaded := api.cache.Peek()
	if loaded {
		categories = append(categories, cat.Categories()...)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":     loaded,
		"categories": categories,
	})
}

// HandleRecipe returns one recipe by sequence id.
// GET /api/recipes/{seq}
func (api *RecommendAPI) HandleRecipe(w http.ResponseWriter, r *http.Request) {
	cat, loaded := api.cache.Peek()
	if !loaded {
		writeError(w, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	recipe, ok := cat.Get(chi.URLParam(r, "seq"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such recipe")
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}
