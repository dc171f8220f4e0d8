package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Sessions keeps one Service per browser session. Idle sessions expire after the ttl.
type Sessions struct {
	mu      sync.Mutex
	cache   *gocache.Cache
	ttl     time.Duration
	factory func() *Service
}

// NewSessions creates a session registry; factory builds the Service for a new session.
func NewSessions(ttl time.Duration, factory func() *Service) *Sessions {
	return &Sessions{
		cache:   gocache.New(ttl, ttl/2),
		ttl:     ttl,
		factory: factory,
	}
}

// Get returns the session for id, creating one under a fresh id when id is
// unknown or expired. The returned id is the one the caller should persist.
func (s *Sessions) Get(id string) (svc *Service, sessionID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if v, ok := s.cache.Get(id); ok {
			svc := v.(*Service)
			s.cache.Set(id, svc, s.ttl)
			return svc, id, false
		}
	}

	sessionID = uuid.NewString()
	svc = s.factory()
	s.cache.Set(sessionID, svc, s.ttl)
	return svc, sessionID, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.ItemCount()
}
