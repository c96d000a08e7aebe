package library

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Semior001/readlater/app/revisor"
	"github.com/Semior001/readlater/app/store"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const sessID = "chat-1"

func newTestService(f Fetcher, s Summarizer) *Service {
	return NewService(slog.Default(), f, s, store.NewSessions(store.SessionsOpts{}))
}

func TestService_AddPasted(t *testing.T) {
	fetcher := &FetcherMock{}
	svc := newTestService(fetcher, &SummarizerMock{})

	texts := []string{
		"one",
		"  leading and trailing  ",
		"multi\nline\ttext with   gaps",
		"unicode: привет мир",
	}

	for _, text := range texts {
		art, err := svc.Add(context.Background(), sessID, AddRequest{Text: text})
		require.NoError(t, err)

		assert.Equal(t, text, art.Content, "content is kept as is")
		assert.Equal(t, len(strings.Fields(text)), art.WordCount)
		assert.Equal(t, PastedTitle, art.Title)
		assert.Equal(t, store.PastedSource, art.Source)
		assert.True(t, art.Pasted())
		assert.Nil(t, art.Summary)
	}

	assert.Len(t, svc.List(context.Background(), sessID), len(texts))
	assert.Empty(t, fetcher.FetchCalls())
}

func TestService_AddTextTakesPrecedence(t *testing.T) {
	fetcher := &FetcherMock{}
	svc := newTestService(fetcher, &SummarizerMock{})

	art, err := svc.Add(context.Background(), sessID, AddRequest{
		URL:  "https://example.com/post",
		Text: "pasted words",
	})
	require.NoError(t, err)

	assert.Equal(t, PastedTitle, art.Title)
	assert.Equal(t, "pasted words", art.Content)
	assert.Equal(t, 2, art.WordCount)
	assert.Equal(t, "https://example.com/post", art.Source, "link is kept as a source")
	assert.Empty(t, fetcher.FetchCalls(), "page is not fetched")

	t.Run("invalid link is not kept", func(t *testing.T) {
		art, err := svc.Add(context.Background(), sessID, AddRequest{URL: "not a link", Text: "text"})
		require.NoError(t, err)
		assert.Equal(t, store.PastedSource, art.Source)
	})
}

func TestService_AddEmpty(t *testing.T) {
	svc := newTestService(&FetcherMock{}, &SummarizerMock{})

	for _, req := range []AddRequest{{}, {URL: "  ", Text: "\n\t "}} {
		_, err := svc.Add(context.Background(), sessID, req)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}

	assert.Empty(t, svc.List(context.Background(), sessID))
}

func TestService_AddURL(t *testing.T) {
	fetcher := &FetcherMock{FetchFunc: func(_ context.Context, url string) (revisor.Metadata, error) {
		assert.Equal(t, "https://example.com/post", url)
		return revisor.Metadata{Title: "Post", WordCount: 4, Text: "a b c d"}, nil
	}}
	svc := newTestService(fetcher, &SummarizerMock{})

	art, err := svc.Add(context.Background(), sessID, AddRequest{URL: " https://example.com/post "})
	require.NoError(t, err)

	assert.Equal(t, store.Article{
		ID:        1,
		Source:    "https://example.com/post",
		Title:     "Post",
		WordCount: 4,
		Content:   "a b c d",
		AddedAt:   art.AddedAt,
	}, art)
	assert.Equal(t, []store.Article{art}, svc.List(context.Background(), sessID))
}

func TestService_AddURLFailed(t *testing.T) {
	fetchErr := errors.New("dial tcp: connection refused")
	svc := newTestService(&FetcherMock{FetchFunc: func(context.Context, string) (revisor.Metadata, error) {
		return revisor.Metadata{}, fetchErr
	}}, &SummarizerMock{})

	_, err := svc.Add(context.Background(), sessID, AddRequest{Text: "existing"})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), sessID, AddRequest{URL: "https://unreachable.example"})
	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, fetchErr)
	assert.Len(t, svc.List(context.Background(), sessID), 1, "nothing is added")
}

func TestService_Summarize(t *testing.T) {
	results := []store.Summary{
		{Status: store.SummaryFailed, Reason: "quota exceeded"},
		{Status: store.SummaryReady, Text: "first"},
		{Status: store.SummaryReady, Text: "second"},
	}

	summarizer := &SummarizerMock{SummarizeFunc: func(_ context.Context, text string) store.Summary {
		res := results[0]
		results = results[1:]
		return res
	}}
	svc := newTestService(&FetcherMock{}, summarizer)

	art, err := svc.Add(context.Background(), sessID, AddRequest{Text: "article text"})
	require.NoError(t, err)

	failed, err := svc.Summarize(context.Background(), sessID, art.ID)
	require.NoError(t, err, "failed summary is not an error")
	require.NotNil(t, failed.Summary)
	assert.True(t, failed.Summary.Failed())
	assert.Equal(t, "quota exceeded", failed.Summary.Reason)

	_, err = svc.Summarize(context.Background(), sessID, art.ID)
	require.NoError(t, err)
	second, err := svc.Summarize(context.Background(), sessID, art.ID)
	require.NoError(t, err)

	assert.Equal(t, &store.Summary{Status: store.SummaryReady, Text: "second"}, second.Summary)

	arts := svc.List(context.Background(), sessID)
	require.Len(t, arts, 1)
	assert.Equal(t, second, arts[0])

	require.Len(t, summarizer.SummarizeCalls(), 3)
	for _, call := range summarizer.SummarizeCalls() {
		assert.Equal(t, "article text", call.Text)
	}
}

func TestService_SummarizeDeletedMeanwhile(t *testing.T) {
	var svc *Service
	svc = newTestService(&FetcherMock{}, &SummarizerMock{SummarizeFunc: func(ctx context.Context, _ string) store.Summary {
		require.NoError(t, svc.Delete(ctx, sessID, 1))
		return store.Summary{Status: store.SummaryReady, Text: "late"}
	}})

	_, err := svc.Add(context.Background(), sessID, AddRequest{Text: "first"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), sessID, AddRequest{Text: "second"})
	require.NoError(t, err)

	_, err = svc.Summarize(context.Background(), sessID, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	arts := svc.List(context.Background(), sessID)
	require.Len(t, arts, 1)
	assert.Equal(t, "second", arts[0].Content)
	assert.Nil(t, arts[0].Summary, "summary did not land on another article")
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(&FetcherMock{}, &SummarizerMock{})

	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := svc.Add(context.Background(), sessID, AddRequest{Text: text})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Delete(context.Background(), sessID, 2))

	contents := func() []string {
		return lo.Map(svc.List(context.Background(), sessID), func(a store.Article, _ int) string { return a.Content })
	}
	assert.Equal(t, []string{"a", "c", "d"}, contents())

	assert.ErrorIs(t, svc.Delete(context.Background(), sessID, 2), store.ErrNotFound)
	assert.Equal(t, []string{"a", "c", "d"}, contents(), "stale delete is a no-op")

	_, err := svc.Summarize(context.Background(), sessID, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_SessionsAreIsolated(t *testing.T) {
	svc := newTestService(&FetcherMock{}, &SummarizerMock{})

	_, err := svc.Add(context.Background(), "alice", AddRequest{Text: "hers"})
	require.NoError(t, err)

	assert.Empty(t, svc.List(context.Background(), "bob"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "bob", 1), store.ErrNotFound)

	ended := svc.End(context.Background(), "alice")
	require.Len(t, ended, 1)
	assert.Equal(t, "hers", ended[0].Content)
	assert.Empty(t, svc.List(context.Background(), "alice"))
}
