package backend

import (
	"context"
	"sync"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/recommend"
	"github.com/google/uuid"
)

// UserSession is one client's recommendation state.
type UserSession struct {
	ID        string
	Engine    *recommend.Engine
	Ctx       context.Context
	CancelFn  context.CancelFunc
	CreatedAt time.Time
}

// SessionManager handles concurrent user sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*UserSession
	provider recommend.CatalogProvider
}

func NewSessionManager(provider recommend.CatalogProvider) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*UserSession),
		provider: provider,
	}
}

// CreateSession registers a new session whose engine starts loading the
// catalog right away.
func (sm *SessionManager) CreateSession() *UserSession {
	ctx, cancel := context.WithCancel(context.Background())
	session := &UserSession{
		ID:        uuid.New().String(),
		Engine:    recommend.New(sm.provider),
		Ctx:       ctx,
		CancelFn:  cancel,
		CreatedAt: time.Now(),
	}
	session.Engine.Request(ctx)

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()
	return session
}

func (sm *SessionManager) GetSession(sessionID string) (*UserSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[sessionID]
	return session, ok
}

// RemoveSession cancels and forgets a session. It reports whether it existed.
func (sm *SessionManager) RemoveSession(sessionID string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	session, ok := sm.sessions[sessionID]
	if !ok {
		return false
	}
	session.CancelFn()
	delete(sm.sessions, sessionID)
	return true
}

// CleanupStale removes sessions older than maxAge
func (sm *SessionManager) CleanupStale(maxAge time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	now := time.Now()
	for id, session := range sm.sessions {
		if now.Sub(session.CreatedAt) > maxAge {
			session.CancelFn()
			delete(sm.sessions, id)
			removed++
		}
	}
	return removed
}

func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
