package revisor

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/Semior001/readlater/app/store"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/exp/slog"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").Parse(prompt))

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatGPTOpts defines parameters for the ChatGPT client.
type ChatGPTOpts struct {
	Token    string
	BaseURL  string        // empty for the default OpenAI endpoint
	Model    string        // empty for gpt-4o-mini
	MaxChars int           // length hint for the summary, zero for 6000
	Timeout  time.Duration // deadline of a single summarization, zero for none
}

// ChatGPT is a client to make requests to OpenAI chatgpt service.
type ChatGPT struct {
	log      *slog.Logger
	cl       OpenAIClient
	noToken  bool
	model    string
	maxChars int
	timeout  time.Duration
	now      func() time.Time
}

// DefaultMaxChars is a default length hint for summaries.
const DefaultMaxChars = 6000

// NewChatGPT creates new ChatGPT client.
func NewChatGPT(lg *slog.Logger, cl *http.Client, opts ChatGPTOpts) *ChatGPT {
	config := openai.DefaultConfig(opts.Token)
	config.HTTPClient = cl
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	if opts.Model == "" {
		opts.Model = openai.GPT4oMini
	}

	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}

	return &ChatGPT{
		log:      lg,
		cl:       &loggingClient{log: lg, cl: openai.NewClientWithConfig(config)},
		noToken:  opts.Token == "",
		model:    opts.Model,
		maxChars: opts.MaxChars,
		timeout:  opts.Timeout,
		now:      time.Now,
	}
}

// Summarize asks the model to shorten the text. Failures are reported
// in the returned summary, its text is set only on success.
func (s *ChatGPT) Summarize(ctx context.Context, text string) store.Summary {
	res, err := s.complete(ctx, text)
	if err != nil {
		s.log.WarnCtx(ctx, "failed to summarize", slog.Any("err", err))

		status := store.SummaryFailed
		if isTimeout(err) {
			status = store.SummaryTimedOut
		}

		return store.Summary{Status: status, Reason: err.Error(), GeneratedAt: s.now()}
	}

	return store.Summary{Status: store.SummaryReady, Text: res, GeneratedAt: s.now()}
}

func (s *ChatGPT) complete(ctx context.Context, text string) (string, error) {
	if s.noToken {
		return "", errors.New("no OpenAI token configured")
	}

	buf := &strings.Builder{}

	err := promptTmpl.Execute(buf, struct {
		MaxChars int
		Text     string
	}{MaxChars: s.maxChars, Text: text})
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buf.String()},
		},
	}

	resp, err := s.cl.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type loggingClient struct {
	log *slog.Logger
	cl  OpenAIClient
}

func (l *loggingClient) CreateChatCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	l.log.DebugCtx(ctx, "sending request to chatGPT", slog.String("model", req.Model))
	resp, err := l.cl.CreateChatCompletion(ctx, req)
	l.log.DebugCtx(ctx, "response received from chatGPT", slog.Any("err", err))
	return resp, err
}
