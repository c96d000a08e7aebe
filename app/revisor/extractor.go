package revisor

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Untitled is a title for pages without one.
const Untitled = "Untitled"

// Metadata is a title and a text extracted from an HTML page.
type Metadata struct {
	Title     string
	WordCount int
	Text      string
}

// Extractor extracts article metadata from an HTML page.
type Extractor struct{}

// NewExtractor creates new Extractor.
func NewExtractor() Extractor { return Extractor{} }

// Extract reads an HTML page and returns its title and the text of all
// paragraphs, joined by a space.
func (e Extractor) Extract(rd io.Reader) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(rd)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = Untitled
	}

	paragraphs := doc.Find("p").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})

	text := strings.Join(paragraphs, " ")
	return Metadata{
		Title:     title,
		WordCount: WordCount(text),
		Text:      text,
	}, nil
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int { return len(strings.Fields(s)) }
