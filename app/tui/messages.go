package tui

import "github.com/Semior001/readlater/app/store"

// AddedMsg is sent when the article is added or failed to be added.
type AddedMsg struct {
	Article store.Article
	Err     error
}

// SummarizedMsg is sent when the summarization is over.
type SummarizedMsg struct {
	ID      int64
	Article store.Article
	Err     error
}
