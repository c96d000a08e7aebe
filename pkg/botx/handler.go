package botx

import "context"

// Handler handles requests.
type Handler func(ctx context.Context, req Request) ([]Response, error)

// Middleware wraps a handler.
type Middleware func(Handler) Handler

// Response is a response from handler.
type Response struct {
	ReplyToMessageID string
	ChatID           string
	Text             string
	// Buttons are attached to the message as rows of inline buttons.
	Buttons [][]Button
}

// Button is an inline button. Pressing it makes a new request with
// the button's Data as a text.
type Button struct {
	Text string
	Data string
}

// Request is a request for handler.
type Request struct {
	MessageID string
	Chat      Chat
	Text      string
	// Callback is true if the request came from a pressed button.
	Callback bool
}

// Chat contains chat information.
type Chat struct {
	ID       string
	Username string
}

// NotFound is a default handler for not found commands.
func NotFound(_ context.Context, req Request) ([]Response, error) {
	return []Response{{
		ChatID: req.Chat.ID,
		Text:   "command not found",
	}}, nil
}
