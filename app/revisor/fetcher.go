// Package revisor contains services for fetching and summarizing articles.
package revisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Semior001/readlater/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"golang.org/x/exp/slog"
)

// ErrInvalidURL is returned when the link is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid url")

const userAgent = "readlater/1.0 (+https://github.com/Semior001/readlater)"

// Fetcher downloads pages and extracts their metadata.
type Fetcher struct {
	log       *slog.Logger
	cl        *http.Client
	extractor Extractor
}

// NewFetcher creates new Fetcher. Timeout of the client bounds a single fetch.
func NewFetcher(lg *slog.Logger, cl http.Client, extractor Extractor) *Fetcher {
	rq := requester.New(cl,
		middleware.Header("User-Agent", userAgent),
		logx.LoggingRoundTripper(lg, logx.RoundTripperOpts{Level: slog.LevelDebug}),
	)

	return &Fetcher{
		log:       lg,
		cl:        rq.Client(),
		extractor: extractor,
	}
}

// Fetch downloads the page by the link and extracts its title and text.
func (s *Fetcher) Fetch(ctx context.Context, u string) (Metadata, error) {
	if err := ValidateURL(u); err != nil {
		return Metadata{}, err
	}

	s.log.DebugCtx(ctx, "fetching article", slog.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return Metadata{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.cl.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return Metadata{}, fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	meta, err := s.extractor.Extract(resp.Body)
	if err != nil {
		return Metadata{}, fmt.Errorf("extract article: %w", err)
	}

	if meta.WordCount == 0 {
		return Metadata{}, errors.New("no paragraphs on the page")
	}

	return meta, nil
}

// ValidateURL checks that u is an absolute http or https link.
func ValidateURL(u string) error {
	parsed, err := url.ParseRequestURI(u)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: no host", ErrInvalidURL)
	}

	return nil
}
