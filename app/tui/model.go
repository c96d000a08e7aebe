// Package tui implements a terminal shell over a single session of saved
// articles.
package tui

import (
	"context"

	"github.com/Semior001/readlater/app/library"
	"github.com/Semior001/readlater/app/store"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is a screen of the shell.
type Mode string

// Modes of the shell.
const (
	ModeList Mode = "list"
	ModeAdd  Mode = "add"
)

type field int

const (
	fieldURL field = iota
	fieldText
)

// Model is the state of the shell.
type Model struct {
	ctx     context.Context
	lib     *library.Service
	session string

	Mode     Mode
	Articles []store.Article
	Cursor   int

	URL   string
	Text  string
	focus field

	// Busy is set while a fetch or a summary is in flight,
	// no other actions are accepted meanwhile.
	Busy   string
	Status string
	Err    string
}

// NewModel makes a new shell over the given session.
func NewModel(ctx context.Context, lib *library.Service, session string) Model {
	return Model{
		ctx:      ctx,
		lib:      lib,
		session:  session,
		Mode:     ModeList,
		Articles: lib.List(ctx, session),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd { return nil }

func (m Model) selected() (store.Article, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Articles) {
		return store.Article{}, false
	}
	return m.Articles[m.Cursor], true
}

// refresh reloads articles and keeps the cursor on the article with the
// given id, if it is still there.
func (m Model) refresh(keepID int64) Model {
	m.Articles = m.lib.List(m.ctx, m.session)

	for i, a := range m.Articles {
		if a.ID == keepID {
			m.Cursor = i
			return m
		}
	}

	if m.Cursor >= len(m.Articles) {
		m.Cursor = len(m.Articles) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	return m
}

func (m Model) withStatus(status string) Model {
	m.Status, m.Err = status, ""
	return m
}

func (m Model) withError(err string) Model {
	m.Status, m.Err = "", err
	return m
}
