package cmd

import (
	"net/http"
	"time"

	"github.com/Semior001/readlater/app/library"
	"github.com/Semior001/readlater/app/revisor"
	"github.com/Semior001/readlater/app/store"
	"golang.org/x/exp/slog"
)

// Revisor defines parameters for fetching and summarizing articles.
type Revisor struct {
	FetchTimeout time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10s" description:"timeout for fetching articles"`

	OpenAI struct {
		Token    string        `long:"token" env:"TOKEN" description:"OpenAI token"`
		BaseURL  string        `long:"base-url" env:"BASE_URL" description:"base url of OpenAI-compatible API"`
		Model    string        `long:"model" env:"MODEL" default:"gpt-4o-mini" description:"model to summarize articles with"`
		MaxChars int           `long:"max-chars" env:"MAX_CHARS" default:"6000" description:"desired length of summaries, in characters"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"1m" description:"timeout for OpenAI calls"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`
}

func (r Revisor) library(lg *slog.Logger, sessions *store.Sessions) *library.Service {
	return library.NewService(
		lg.With(slog.String("prefix", "library")),
		revisor.NewFetcher(
			lg.With(slog.String("prefix", "fetcher")),
			http.Client{Timeout: r.FetchTimeout},
			revisor.NewExtractor(),
		),
		revisor.NewChatGPT(
			lg.With(slog.String("prefix", "chatgpt")),
			&http.Client{},
			revisor.ChatGPTOpts{
				Token:    r.OpenAI.Token,
				BaseURL:  r.OpenAI.BaseURL,
				Model:    r.OpenAI.Model,
				MaxChars: r.OpenAI.MaxChars,
				Timeout:  r.OpenAI.Timeout,
			},
		),
		sessions,
	)
}
