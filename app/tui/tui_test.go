package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/Semior001/readlater/app/library"
	"github.com/Semior001/readlater/app/revisor"
	"github.com/Semior001/readlater/app/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const session = "local"

func newTestModel(t *testing.T, f library.Fetcher, s library.Summarizer) (Model, *library.Service) {
	t.Helper()
	lib := library.NewService(slog.Default(), f, s, store.NewSessions(store.SessionsOpts{}))
	return NewModel(context.Background(), lib, session), lib
}

func key(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var res tea.Model
		res, cmd = m.Update(msg)
		m = res.(Model)
	}

	return m, cmd
}

// run executes the command and feeds its result back to the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	return m
}

func addPasted(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, cmd := press(t, m, key("a"), tea.KeyMsg{Type: tea.KeyTab}, key(text), tea.KeyMsg{Type: tea.KeyCtrlS})
	return run(t, m, cmd)
}

func TestModel_AddPasted(t *testing.T) {
	m, _ := newTestModel(t, &library.FetcherMock{}, &library.SummarizerMock{})

	m, cmd := press(t, m,
		key("a"),
		tea.KeyMsg{Type: tea.KeyTab},
		key("hello"),
		tea.KeyMsg{Type: tea.KeySpace},
		key("wrld"),
		tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace},
		key("ld"),
		tea.KeyMsg{Type: tea.KeyEnter},
		key("again"),
		tea.KeyMsg{Type: tea.KeyCtrlS},
	)
	assert.Equal(t, "Saving the article...", m.Busy)
	assert.Equal(t, "hello wrld\nagain", m.Text)

	m = run(t, m, cmd)
	assert.Empty(t, m.Busy)
	assert.Equal(t, ModeList, m.Mode)
	require.Len(t, m.Articles, 1)
	assert.Equal(t, "hello wrld\nagain", m.Articles[0].Content)
	assert.Equal(t, 3, m.Articles[0].WordCount)
	assert.Equal(t, "Article added: "+library.PastedTitle, m.Status)
	assert.Contains(t, m.View(), library.PastedTitle)
}

func TestModel_AddEmpty(t *testing.T) {
	m, _ := newTestModel(t, &library.FetcherMock{}, &library.SummarizerMock{})

	m, cmd := press(t, m, key("a"), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, ModeAdd, m.Mode)
	assert.Equal(t, "Please, enter a link or paste the text of an article.", m.Err)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.Mode)
	assert.Empty(t, m.Articles)
	assert.Contains(t, m.View(), "No saved articles yet")
}

func TestModel_AddLink(t *testing.T) {
	fail := true
	fetcher := &library.FetcherMock{FetchFunc: func(_ context.Context, url string) (revisor.Metadata, error) {
		if fail {
			return revisor.Metadata{}, errors.New("timeout")
		}
		return revisor.Metadata{Title: "Post", WordCount: 2, Text: "a b"}, nil
	}}
	m, _ := newTestModel(t, fetcher, &library.SummarizerMock{})

	m, cmd := press(t, m, key("a"), key("https://example.com"), tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, "Fetching the article...", m.Busy)

	m = run(t, m, cmd)
	assert.Equal(t, "Couldn't extract the article. Is the link valid?", m.Err)
	assert.Equal(t, ModeAdd, m.Mode, "form is kept to fix the link")
	assert.Empty(t, m.Articles)

	fail = false
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = run(t, m, cmd)
	require.Len(t, m.Articles, 1)
	assert.Equal(t, "Post", m.Articles[0].Title)
	assert.Equal(t, "https://example.com", m.Articles[0].Source)
	assert.Contains(t, m.View(), "🔗 https://example.com")
}

func TestModel_Summarize(t *testing.T) {
	results := []store.Summary{
		{Status: store.SummaryFailed, Reason: "quota"},
		{Status: store.SummaryReady, Text: "short version"},
	}
	summarizer := &library.SummarizerMock{SummarizeFunc: func(context.Context, string) store.Summary {
		res := results[0]
		results = results[1:]
		return res
	}}
	m, _ := newTestModel(t, &library.FetcherMock{}, summarizer)

	m, cmd := press(t, m, key("s"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to summarize, add an article first.", m.Err)

	m = addPasted(t, m, "first")
	m = addPasted(t, m, "second")
	assert.Equal(t, 1, m.Cursor, "cursor is on the added article")

	m, _ = press(t, m, key("k"))
	m, cmd = press(t, m, key("s"))
	require.NotEmpty(t, m.Busy)

	t.Run("actions are ignored while busy", func(t *testing.T) {
		busy, cmd := press(t, m, key("d"), key("a"))
		assert.Nil(t, cmd)
		assert.Len(t, busy.Articles, 2)
		assert.Equal(t, ModeList, busy.Mode)
	})

	m = run(t, m, cmd)
	assert.Equal(t, `Couldn't summarize "Manually pasted article".`, m.Err)
	assert.Contains(t, m.View(), "Summary failed: quota")

	m, cmd = press(t, m, key("s"))
	m = run(t, m, cmd)
	assert.Equal(t, `Summary of "Manually pasted article" is ready.`, m.Status)
	assert.Equal(t, &store.Summary{Status: store.SummaryReady, Text: "short version"}, m.Articles[0].Summary)
	assert.Nil(t, m.Articles[1].Summary)
	assert.Contains(t, m.View(), "short version")
	assert.NotContains(t, m.View(), "Summary failed", "failed summary is overwritten")
}

func TestModel_Delete(t *testing.T) {
	m, lib := newTestModel(t, &library.FetcherMock{}, &library.SummarizerMock{})

	for _, text := range []string{"a", "b", "c"} {
		m = addPasted(t, m, text)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, key("k"), key("j"))
	assert.Equal(t, 1, m.Cursor)

	m, _ = press(t, m, key("d"))
	assert.Equal(t, []string{"a", "c"}, contents(m.Articles))
	assert.Equal(t, 1, m.Cursor, "cursor moves to the next article")

	m, _ = press(t, m, key("d"))
	assert.Equal(t, []string{"a"}, contents(m.Articles))
	assert.Equal(t, 0, m.Cursor)

	t.Run("stale article", func(t *testing.T) {
		require.NoError(t, lib.Delete(context.Background(), session, m.Articles[0].ID))
		m, _ := press(t, m, key("d"))
		assert.Equal(t, "The article is already gone.", m.Err)
		assert.Empty(t, m.Articles)
	})
}

func TestModel_Quit(t *testing.T) {
	m, lib := newTestModel(t, &library.FetcherMock{}, &library.SummarizerMock{})
	m = addPasted(t, m, "text")

	_, cmd := press(t, m, key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, lib.List(context.Background(), session), "session is ended")
}

func contents(arts []store.Article) []string {
	res := make([]string, 0, len(arts))
	for _, a := range arts {
		res = append(res, a.Content)
	}
	return res
}
