package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Semior001/readlater/app/library"
	"github.com/Semior001/readlater/app/store"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.Busy != "" {
			return m, nil
		}
		if m.Mode == ModeAdd {
			return m.handleAddKey(msg)
		}
		return m.handleListKey(msg)
	case AddedMsg:
		return m.handleAdded(msg)
	case SummarizedMsg:
		return m.handleSummarized(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.lib.End(m.ctx, m.session)
	m.Articles = nil
	return m, tea.Quit
}

// handleListKey processes keyboard input on the list screen
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Articles)-1 {
			m.Cursor++
		}
	case "a":
		m.Mode, m.URL, m.Text, m.focus = ModeAdd, "", "", fieldURL
		m = m.withStatus("")
	case "s":
		art, ok := m.selected()
		if !ok {
			return m.withError("Nothing to summarize, add an article first."), nil
		}
		m.Busy = fmt.Sprintf("Generating a summary of %q...", art.Title)
		return m, summarizeArticle(m.ctx, m.lib, m.session, art.ID)
	case "d":
		art, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.lib.Delete(m.ctx, m.session, art.ID); err != nil {
			return m.refresh(0).withError("The article is already gone."), nil
		}
		return m.refresh(0).withStatus(fmt.Sprintf("Deleted %q.", art.Title)), nil
	}
	return m, nil
}

// handleAddKey processes keyboard input on the add form
func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Mode = ModeList
		return m.withStatus(""), nil
	case tea.KeyTab, tea.KeyShiftTab:
		if m.focus == fieldURL {
			m.focus = fieldText
		} else {
			m.focus = fieldURL
		}
		return m, nil
	case tea.KeyCtrlS:
		return m.submit()
	case tea.KeyEnter:
		if m.focus == fieldURL {
			m.focus = fieldText
			return m, nil
		}
		m.Text += "\n"
		return m, nil
	case tea.KeyBackspace:
		if m.focus == fieldURL {
			m.URL = dropLastRune(m.URL)
		} else {
			m.Text = dropLastRune(m.Text)
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		input := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			input = " "
		}

		if m.focus == fieldURL {
			m.URL += input
		} else {
			m.Text += input
		}
		return m, nil
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req := library.AddRequest{URL: m.URL, Text: m.Text}

	if strings.TrimSpace(req.URL) == "" && strings.TrimSpace(req.Text) == "" {
		return m.withError("Please, enter a link or paste the text of an article."), nil
	}

	m.Busy = "Saving the article..."
	if strings.TrimSpace(req.Text) == "" {
		m.Busy = "Fetching the article..."
	}

	return m, addArticle(m.ctx, m.lib, m.session, req)
}

// handleAdded processes completion of adding an article
func (m Model) handleAdded(msg AddedMsg) (tea.Model, tea.Cmd) {
	m.Busy = ""

	switch {
	case errors.Is(msg.Err, library.ErrEmptyInput):
		return m.withError("Please, enter a link or paste the text of an article."), nil
	case errors.Is(msg.Err, library.ErrExtraction):
		return m.withError("Couldn't extract the article. Is the link valid?"), nil
	case msg.Err != nil:
		return m.withError(msg.Err.Error()), nil
	}

	m.Mode = ModeList
	return m.refresh(msg.Article.ID).withStatus(fmt.Sprintf("Article added: %s", msg.Article.Title)), nil
}

// handleSummarized processes completion of a summarization
func (m Model) handleSummarized(msg SummarizedMsg) (tea.Model, tea.Cmd) {
	m.Busy = ""
	m = m.refresh(msg.ID)

	switch {
	case errors.Is(msg.Err, store.ErrNotFound):
		return m.withError("The article was deleted before the summary was ready."), nil
	case msg.Err != nil:
		return m.withError(msg.Err.Error()), nil
	case msg.Article.Summary != nil && msg.Article.Summary.Failed():
		return m.withError(fmt.Sprintf("Couldn't summarize %q.", msg.Article.Title)), nil
	}

	return m.withStatus(fmt.Sprintf("Summary of %q is ready.", msg.Article.Title)), nil
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
