package store

import (
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v2"
)

// Sessions keeps sessions by their identifiers. A session is dropped, with
// all its articles, when it wasn't touched for the configured TTL or when
// the maximum number of sessions is exceeded.
type Sessions struct {
	mu    sync.Mutex
	cache cache.Cache[string, *Session]
}

// SessionsOpts defines parameters for Sessions.
type SessionsOpts struct {
	TTL     time.Duration // idle time after which the session is dropped, zero for none
	MaxKeys int           // max number of live sessions, zero for unlimited
}

// NewSessions makes a new registry of sessions.
func NewSessions(opts SessionsOpts) *Sessions {
	c := cache.NewCache[string, *Session]().WithLRU()
	if opts.TTL > 0 {
		c = c.WithTTL(opts.TTL)
	}
	if opts.MaxKeys > 0 {
		c = c.WithMaxKeys(opts.MaxKeys)
	}

	return &Sessions{cache: c}
}

// Get returns a session with the given ID, creating it on first use.
// Every call prolongs the session's lifetime.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(id)
	if !ok {
		sess = NewSession()
	}

	s.cache.Set(id, sess, 0)
	return sess
}

// End drops the session and returns articles it contained.
func (s *Sessions) End(id string) []Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Peek(id)
	if !ok {
		return nil
	}

	s.cache.Invalidate(id)
	return sess.Export()
}

// DeleteExpired drops sessions that outlived their TTL.
func (s *Sessions) DeleteExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.DeleteExpired()
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Stat returns statistics of the underlying cache.
func (s *Sessions) Stat() cache.Stats {
	return s.cache.Stat()
}
