package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/repo-browser/internal/tree"
	"github.com/ziadkadry99/repo-browser/internal/viewer"
)

// session is the server side of one loaded page.
type session struct {
	id       string
	page     *viewer.Page
	browsers map[string]*tree.Browser

	lastSeen time.Time // guarded by sessionStore.mu
}

type sessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*session),
	}
}

// create registers a new session built by build. Idle sessions are reaped
// first.
func (s *sessionStore) create(build func(id string) *session) *session {
	sess := build(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, old := range s.items {
		if now.Sub(old.lastSeen) > s.ttl {
			delete(s.items, id)
		}
	}
	sess.lastSeen = now
	s.items[sess.id] = sess
	return sess
}

// get returns a live session and marks it as seen.
func (s *sessionStore) get(id string) (*session, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(sess.lastSeen) > s.ttl {
		delete(s.items, id)
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// Len returns the number of sessions held.
func (s *sessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
