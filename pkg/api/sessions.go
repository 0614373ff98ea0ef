package api

import (
	"sync"
	"time"

	"github.com/acestep/studio/pkg/webui"
	"github.com/google/uuid"
)

// Session timeout - sessions with no activity for this duration are dropped.
const sessionTimeout = 30 * time.Minute

// SessionManager tracks per-client page sessions.
type SessionManager struct {
	page *webui.Page

	mu           sync.Mutex
	sessions     map[string]*webui.Session
	lastActivity map[string]time.Time
	stop         chan struct{}
}

// NewSessionManager manages sessions over a finalized page and starts the
// stale-session sweeper.
func NewSessionManager(page *webui.Page) *SessionManager {
	sm := &SessionManager{
		page:         page,
		sessions:     make(map[string]*webui.Session),
		lastActivity: make(map[string]time.Time),
		stop:         make(chan struct{}),
	}
	go sm.cleanupLoop()
	return sm
}

// Close stops the sweeper.
func (sm *SessionManager) Close() {
	close(sm.stop)
}

// Create registers a new session and returns its ID.
func (sm *SessionManager) Create() (string, *webui.Session) {
	id := uuid.NewString()
	session := webui.NewSession(sm.page)
	sm.mu.Lock()
	sm.sessions[id] = session
	sm.lastActivity[id] = time.Now()
	sm.mu.Unlock()
	return id, session
}

// Get returns the session with the given ID, refreshing its activity clock.
func (sm *SessionManager) Get(id string) (*webui.Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s, ok := sm.sessions[id]
	if ok {
		sm.lastActivity[id] = time.Now()
	}
	return s, ok
}

func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sm.cleanupStale()
		case <-sm.stop:
			return
		}
	}
}

func (sm *SessionManager) cleanupStale() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	now := time.Now()
	for id, last := range sm.lastActivity {
		if now.Sub(last) > sessionTimeout {
			delete(sm.sessions, id)
			delete(sm.lastActivity, id)
		}
	}
}
