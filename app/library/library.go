// Package library implements actions a user can do with saved articles:
// adding them by a link or as a pasted text, summarizing and deleting.
// Every action works within a single session.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Semior001/readlater/app/revisor"
	"github.com/Semior001/readlater/app/store"
	"golang.org/x/exp/slog"
)

// PastedTitle is a title of articles added as a plain text.
const PastedTitle = "Manually pasted article"

var (
	// ErrEmptyInput is returned when neither link nor text is given.
	ErrEmptyInput = errors.New("neither link nor text provided")
	// ErrExtraction is returned when the article can't be fetched or parsed.
	ErrExtraction = errors.New("failed to extract article")
)

//go:generate moq -out mock_fetcher.go . Fetcher
//go:generate moq -out mock_summarizer.go . Summarizer

// Fetcher downloads and parses a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (revisor.Metadata, error)
}

// Summarizer shortens the text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) store.Summary
}

// Service manages articles of sessions.
type Service struct {
	log        *slog.Logger
	fetcher    Fetcher
	summarizer Summarizer
	sessions   *store.Sessions
}

// NewService makes a new Service.
func NewService(lg *slog.Logger, fetcher Fetcher, summarizer Summarizer, sessions *store.Sessions) *Service {
	return &Service{
		log:        lg,
		fetcher:    fetcher,
		summarizer: summarizer,
		sessions:   sessions,
	}
}

// AddRequest describes an article to add.
// Text, if present, takes precedence over the link.
type AddRequest struct {
	URL  string
	Text string
}

// Add saves a new article to the session.
func (s *Service) Add(ctx context.Context, sessionID string, req AddRequest) (store.Article, error) {
	u := strings.TrimSpace(req.URL)

	if strings.TrimSpace(req.Text) != "" {
		source := store.PastedSource
		if u != "" && revisor.ValidateURL(u) == nil {
			source = u
		}

		art := s.sessions.Get(sessionID).Append(store.Article{
			Source:    source,
			Title:     PastedTitle,
			WordCount: revisor.WordCount(req.Text),
			Content:   req.Text,
		})

		s.log.DebugCtx(ctx, "added pasted article",
			slog.String("session", sessionID),
			slog.Int64("id", art.ID),
			slog.Int("words", art.WordCount))

		return art, nil
	}

	if u == "" {
		return store.Article{}, ErrEmptyInput
	}

	meta, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		return store.Article{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	art := s.sessions.Get(sessionID).Append(store.Article{
		Source:    u,
		Title:     meta.Title,
		WordCount: meta.WordCount,
		Content:   meta.Text,
	})

	s.log.DebugCtx(ctx, "added article",
		slog.String("session", sessionID),
		slog.Int64("id", art.ID),
		slog.String("url", u))

	return art, nil
}

// Summarize requests a summary for the article and stores it, overwriting
// the previous one. Failed summarization is not an error, it is stored as
// a failed summary.
func (s *Service) Summarize(ctx context.Context, sessionID string, id int64) (store.Article, error) {
	sess := s.sessions.Get(sessionID)

	art, err := sess.Get(id)
	if err != nil {
		return store.Article{}, fmt.Errorf("get article %d: %w", id, err)
	}

	sum := s.summarizer.Summarize(ctx, art.Content)

	// the article might be deleted while we were waiting for the summary
	if art, err = sess.SetSummary(id, sum); err != nil {
		return store.Article{}, fmt.Errorf("set summary of article %d: %w", id, err)
	}

	return art, nil
}

// Delete removes the article from the session.
// Deleting an already deleted article returns store.ErrNotFound.
func (s *Service) Delete(_ context.Context, sessionID string, id int64) error {
	if err := s.sessions.Get(sessionID).Remove(id); err != nil {
		return fmt.Errorf("remove article %d: %w", id, err)
	}
	return nil
}

// List returns all articles of the session in the order they were added.
func (s *Service) List(_ context.Context, sessionID string) []store.Article {
	return s.sessions.Get(sessionID).List()
}

// End drops the session and returns its articles.
func (s *Service) End(ctx context.Context, sessionID string) []store.Article {
	arts := s.sessions.End(sessionID)
	s.log.DebugCtx(ctx, "session ended",
		slog.String("session", sessionID),
		slog.Int("articles", len(arts)))
	return arts
}
