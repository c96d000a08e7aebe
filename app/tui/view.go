package tui

import (
	"fmt"
	"strings"

	"github.com/Semior001/readlater/app/store"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("📰 Saved articles & AI summaries"))
	b.WriteString("\n")

	if m.Mode == ModeAdd {
		b.WriteString(m.addForm())
	} else {
		b.WriteString(m.list())
	}
	b.WriteString("\n")

	switch {
	case m.Busy != "":
		b.WriteString(StatusStyle.Render("⏳ " + m.Busy))
		b.WriteString("\n")
	case m.Err != "":
		b.WriteString(ErrorStyle.Render("❌ " + m.Err))
		b.WriteString("\n")
	case m.Status != "":
		b.WriteString(StatusStyle.Render("✅ " + m.Status))
		b.WriteString("\n")
	}

	if m.Mode == ModeAdd {
		b.WriteString(InfoStyle.Render("tab: switch field | ctrl+s: save | esc: cancel"))
	} else {
		b.WriteString(InfoStyle.Render("↑/↓: select | a: add | s: summarize | d: delete | q: quit"))
	}

	return b.String()
}

func (m Model) list() string {
	if len(m.Articles) == 0 {
		return InfoStyle.Render("No saved articles yet. Press 'a' to add one.") + "\n"
	}

	var b strings.Builder
	for i, a := range m.Articles {
		card := renderCard(a)
		if i == m.Cursor {
			b.WriteString(SelectedStyle.Render(card))
		} else {
			b.WriteString(CardStyle.Render(card))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCard(a store.Article) string {
	var b strings.Builder

	b.WriteString(HighlightStyle.Render(a.Title))
	b.WriteString("\n")

	source := "🔗 " + a.Source
	if a.Pasted() {
		source = "📋 pasted text"
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("📏 %d words | %s", a.WordCount, source)))

	if a.Summary == nil {
		return b.String()
	}

	b.WriteString("\n\n")
	switch a.Summary.Status {
	case store.SummaryReady:
		b.WriteString(StatusStyle.Render("Summary ✨"))
		b.WriteString("\n")
		b.WriteString(a.Summary.Text)
	case store.SummaryTimedOut:
		b.WriteString(ErrorStyle.Render("⏱ Summary timed out: " + a.Summary.Reason))
	default:
		b.WriteString(ErrorStyle.Render("⚠️ Summary failed: " + a.Summary.Reason))
	}

	return b.String()
}

func (m Model) addForm() string {
	var b strings.Builder

	cursor := func(f field) string {
		if m.focus == f {
			return "▌"
		}
		return ""
	}

	b.WriteString(HighlightStyle.Render("Link (optional)"))
	b.WriteString("\n")
	b.WriteString(m.URL + cursor(fieldURL))
	b.WriteString("\n\n")
	b.WriteString(HighlightStyle.Render("Or paste the text of the article"))
	b.WriteString("\n")
	b.WriteString(m.Text + cursor(fieldText))
	b.WriteString("\n")

	return b.String()
}
