package store

import (
	"errors"
	"sync"
	"time"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Session is an ordered list of articles, owned by a single session.
// Each article gets an identifier that stays the same after other
// articles are removed, positions do not.
type Session struct {
	mu       sync.Mutex
	lastID   int64
	articles []Article
	now      func() time.Time
}

// NewSession makes a new empty session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Append adds an article to the end of the list, assigning it a new ID.
func (s *Session) Append(a Article) Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	a.ID = s.lastID
	a.AddedAt = s.now()
	s.articles = append(s.articles, a)

	return a
}

// Get returns an article by its ID.
func (s *Session) Get(id int64) (Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Article{}, ErrNotFound
	}

	return s.articles[idx], nil
}

// Remove removes an article by its ID.
func (s *Session) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	s.removeAt(idx)
	return nil
}

// RemoveAt removes an article at the given position.
// Out of range positions are ignored, in which case false is returned.
func (s *Session) RemoveAt(idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.articles) {
		return false
	}

	s.removeAt(idx)
	return true
}

// SetSummary overwrites the summary of an article with the given ID.
func (s *Session) SetSummary(id int64, sum Summary) (Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Article{}, ErrNotFound
	}

	s.articles[idx].Summary = &sum
	return s.articles[idx], nil
}

// SetSummaryAt overwrites the summary of an article at the given position.
// Out of range positions are ignored, in which case false is returned.
func (s *Session) SetSummaryAt(idx int, sum Summary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 || idx >= len(s.articles) {
		return false
	}

	s.articles[idx].Summary = &sum
	return true
}

// List returns a copy of all articles in the order they were added.
func (s *Session) List() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]Article, len(s.articles))
	copy(res, s.articles)
	return res
}

// Len returns the number of articles in the session.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// Export empties the session and returns everything it contained.
func (s *Session) Export() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.articles
	s.articles = nil
	return res
}

func (s *Session) removeAt(idx int) {
	s.articles = append(s.articles[:idx], s.articles[idx+1:]...)
}

// indexOf must be called under lock.
func (s *Session) indexOf(id int64) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}
