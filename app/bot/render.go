package bot

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Semior001/readlater/app/store"
	"github.com/Semior001/readlater/pkg/botx"
)

var articleCardTmpl = template.Must(template.New("articleCard").Parse(
	`*#{{.ID}} {{.Title}}*
{{.WordCount}} {{if eq .WordCount 1}}word{{else}}words{{end}} · {{if .Pasted}}pasted text{{else}}[source]({{.Source}}){{end}}
{{- with .Summary}}

{{if eq .Status "ready"}}*Summary*
{{.Text}}{{else if eq .Status "timed_out"}}⏱ *Summary timed out:* {{.Reason}}{{else}}⚠️ *Summary failed:* {{.Reason}}{{end}}
{{- end}}`))

type articleCard struct {
	ID        int64
	Title     string
	WordCount int
	Pasted    bool
	Source    string
	Summary   *store.Summary
}

func renderArticle(chatID string, a store.Article) (botx.Response, error) {
	card := articleCard{
		ID:        a.ID,
		Title:     escapeMarkdown(a.Title),
		WordCount: a.WordCount,
		Pasted:    a.Pasted(),
		Source:    a.Source,
	}

	if a.Summary != nil {
		sum := *a.Summary
		sum.Text = escapeMarkdown(sum.Text)
		sum.Reason = escapeMarkdown(sum.Reason)
		card.Summary = &sum
	}

	sb := &strings.Builder{}
	if err := articleCardTmpl.Execute(sb, card); err != nil {
		return botx.Response{}, fmt.Errorf("execute article card template: %w", err)
	}

	summarizeText := "Generate Summary"
	if a.Summary != nil {
		summarizeText = "Regenerate Summary"
	}

	return botx.Response{
		ChatID: chatID,
		Text:   sb.String(),
		Buttons: [][]botx.Button{{
			{Text: summarizeText, Data: fmt.Sprintf("%s %d", cmdSummarize, a.ID)},
			{Text: "Delete", Data: fmt.Sprintf("%s %d", cmdDelete, a.ID)},
		}},
	}, nil
}

// renderList returns the status message followed by a card for every article.
func renderList(chatID, status string, arts []store.Article) ([]botx.Response, error) {
	var resps []botx.Response

	if status != "" {
		resps = append(resps, botx.Response{ChatID: chatID, Text: status})
	}

	if len(arts) == 0 {
		return append(resps, botx.Response{
			ChatID: chatID,
			Text:   "You have no saved articles yet. Send me a link or paste the text of an article.",
		}), nil
	}

	resps = append(resps, botx.Response{
		ChatID: chatID,
		Text:   fmt.Sprintf("Your saved articles (%d):", len(arts)),
	})

	for _, a := range arts {
		resp, err := renderArticle(chatID, a)
		if err != nil {
			return nil, fmt.Errorf("render article %d: %w", a.ID, err)
		}
		resps = append(resps, resp)
	}

	return resps, nil
}

// telegram's legacy markdown has only these special characters
var mdEscaper = strings.NewReplacer(
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
