// Package store contains entities of the application and an in-memory,
// session-scoped storage for them.
package store

import "time"

// PastedSource is a source marker for articles that were pasted as plain text
// without any link.
const PastedSource = "(pasted text)"

// Article is a saved article.
type Article struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title"`
	WordCount int       `json:"word_count"`
	Content   string    `json:"content"`
	Summary   *Summary  `json:"summary,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Pasted returns true if the article has no link to the source.
func (a Article) Pasted() bool { return a.Source == PastedSource }

// SummaryStatus describes the outcome of a summarization attempt.
type SummaryStatus string

// Summary statuses.
const (
	SummaryReady    SummaryStatus = "ready"
	SummaryFailed   SummaryStatus = "failed"
	SummaryTimedOut SummaryStatus = "timed_out"
)

// Summary is a result of summarization. Text is set only for ready summaries,
// Reason is set only for failed ones.
type Summary struct {
	Status      SummaryStatus `json:"status"`
	Text        string        `json:"text,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Failed returns true if the summary holds a failure instead of a text.
func (s Summary) Failed() bool { return s.Status != SummaryReady }
