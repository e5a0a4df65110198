package backend

import (
	"context"
	"testing"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/catalog"
	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/Another0Noob/fridge-recipes/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedProvider struct{ cat *catalog.Catalog }

func (p fixedProvider) Get(ctx context.Context) (*catalog.Catalog, error) {
	return p.cat, nil
}

func newManager() *SessionManager {
	cat := catalog.New([]recipeapi.Recipe{{Seq: "1", Name: "계란말이", Category: "반찬"}}, time.Now())
	return NewSessionManager(fixedProvider{cat: cat})
}

func TestCreateSessionStartsLoading(t *testing.T) {
	sm := newManager()
	s := sm.CreateSession()

	require.NoError(t, s.Engine.Wait(context.Background()))
	assert.Equal(t, recommend.Ready, s.Engine.Status().State)

	got, ok := sm.GetSession(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, sm.Len())
}

func TestRemoveSessionCancelsContext(t *testing.T) {
	sm := newManager()
	s := sm.CreateSession()

	assert.True(t, sm.RemoveSession(s.ID))
	assert.False(t, sm.RemoveSession(s.ID))
	assert.ErrorIs(t, s.Ctx.Err(), context.Canceled)
	assert.Equal(t, 0, sm.Len())
}

func TestCleanupStale(t *testing.T) {
	sm := newManager()
	old := sm.CreateSession()
	fresh := sm.CreateSession()
	old.CreatedAt = time.Now().Add(-25 * time.Hour)

	assert.Equal(t, 1, sm.CleanupStale(24*time.Hour))

	_, ok := sm.GetSession(old.ID)
	assert.False(t, ok)
	_, ok = sm.GetSession(fresh.ID)
	assert.True(t, ok)
	assert.Error(t, old.Ctx.Err())
}
