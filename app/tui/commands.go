package tui

import (
	"context"

	"github.com/Semior001/readlater/app/library"
	tea "github.com/charmbracelet/bubbletea"
)

// addArticle creates a command to add an article, possibly fetching it
func addArticle(ctx context.Context, lib *library.Service, session string, req library.AddRequest) tea.Cmd {
	return func() tea.Msg {
		art, err := lib.Add(ctx, session, req)
		return AddedMsg{Article: art, Err: err}
	}
}

// summarizeArticle creates a command to summarize the article with the given id
func summarizeArticle(ctx context.Context, lib *library.Service, session string, id int64) tea.Cmd {
	return func() tea.Msg {
		art, err := lib.Summarize(ctx, session, id)
		return SummarizedMsg{ID: id, Article: art, Err: err}
	}
}
