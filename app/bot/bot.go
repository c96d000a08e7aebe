// Package bot contains routers and controllers for bots.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Semior001/readlater/app/library"
	"github.com/Semior001/readlater/app/revisor"
	"github.com/Semior001/readlater/app/store"
	"github.com/Semior001/readlater/pkg/botx"
	"github.com/Semior001/readlater/pkg/botx/botmw"
	"golang.org/x/exp/slog"
)

const (
	cmdStart     = "/start"
	cmdHelp      = "/help"
	cmdAdd       = "/add"
	cmdList      = "/list"
	cmdSummarize = "/summarize"
	cmdDelete    = "/delete"
	cmdClear     = "/clear"
)

const helpText = "Send me a link to an article and I'll keep it for you, " +
	"or paste the text of the article right away.\n\n" +
	"/add <link> - save an article, text on the next lines is saved instead of the page\n" +
	"/list - show saved articles\n" +
	"/summarize <id> - generate a summary of the article\n" +
	"/delete <id> - delete the article\n" +
	"/clear - forget all saved articles\n\n" +
	"Articles are kept in memory only, until you clear them or the bot restarts."

// Ctrl provides routes and controllers for bot updates.
// Every chat is a separate session.
type Ctrl struct {
	Logger         *slog.Logger
	Library        *library.Service
	API            botx.API
	AdminIDs       []string
	HandlerTimeout time.Duration
}

// Routes returns a multiplexer for bot controllers.
func (c *Ctrl) Routes() *botx.Router {
	rtr := botx.NewRouter()

	rtr.Use(
		botmw.RequestID(),
		botmw.AppendRequestIDOnError(),
		botmw.Recover(c.Logger),
		botmw.Logger(c.Logger),
		botmw.Timeout(c.HandlerTimeout),
	)

	rtr.NotFound(c.message)
	rtr.Add(cmdStart, c.help)
	rtr.Add(cmdHelp, c.help)
	rtr.Add(cmdAdd, c.add)
	rtr.Add(cmdList, c.list)
	rtr.Add(cmdSummarize, c.summarize)
	rtr.Add(cmdDelete, c.delete)
	rtr.Add(cmdClear, c.clear)

	return rtr
}

func (c *Ctrl) help(_ context.Context, req botx.Request) ([]botx.Response, error) {
	return []botx.Response{{ChatID: req.Chat.ID, Text: escapeMarkdown(helpText)}}, nil
}

// message handles any text that is not a command: a sole link is fetched,
// anything else is saved as a pasted article.
func (c *Ctrl) message(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	text := strings.TrimSpace(req.Text)

	if strings.HasPrefix(text, "/") {
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text:   "Unknown command, see /help.",
		}}, nil
	}

	if revisor.ValidateURL(text) == nil {
		return c.addArticle(ctx, req, library.AddRequest{URL: text})
	}

	return c.addArticle(ctx, req, library.AddRequest{Text: req.Text})
}

// add handles "/add <link>\n<text>".
func (c *Ctrl) add(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	var rest string
	if idx := strings.IndexAny(req.Text, " \n"); idx >= 0 {
		rest = req.Text[idx+1:]
	}

	firstLine, remainder, _ := strings.Cut(rest, "\n")
	firstLine = strings.TrimSpace(firstLine)

	if revisor.ValidateURL(firstLine) == nil {
		return c.addArticle(ctx, req, library.AddRequest{URL: firstLine, Text: remainder})
	}

	return c.addArticle(ctx, req, library.AddRequest{Text: rest})
}

func (c *Ctrl) addArticle(ctx context.Context, req botx.Request, addReq library.AddRequest) ([]botx.Response, error) {
	if strings.TrimSpace(addReq.Text) == "" && addReq.URL != "" {
		err := c.API.SendMessage(ctx, botx.Response{
			ChatID: req.Chat.ID,
			Text:   "I'm fetching the article, please wait...",
		})
		if err != nil {
			return nil, fmt.Errorf("send start message: %w", err)
		}
	}

	art, err := c.Library.Add(ctx, req.Chat.ID, addReq)
	switch {
	case errors.Is(err, library.ErrEmptyInput):
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text:   "Please, send me a link or paste the text of an article.",
		}}, nil
	case errors.Is(err, library.ErrExtraction):
		c.Logger.WarnCtx(ctx, "failed to extract article", slog.String("url", addReq.URL), slog.Any("err", err))
		return []botx.Response{{
			ChatID: req.Chat.ID,
			Text:   "Couldn't extract the article. Is the link valid?",
		}}, nil
	case err != nil:
		return nil, fmt.Errorf("add article: %w", err)
	}

	status := fmt.Sprintf("Article added: %s", escapeMarkdown(art.Title))
	return renderList(req.Chat.ID, status, c.Library.List(ctx, req.Chat.ID))
}

func (c *Ctrl) list(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	return renderList(req.Chat.ID, "", c.Library.List(ctx, req.Chat.ID))
}

func (c *Ctrl) summarize(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	id, ok := articleID(req.Text)
	if !ok {
		return usage(req, cmdSummarize), nil
	}

	err := c.API.SendMessage(ctx, botx.Response{
		ChatID: req.Chat.ID,
		Text:   fmt.Sprintf("Generating a summary of article #%d, please wait...", id),
	})
	if err != nil {
		return nil, fmt.Errorf("send start message: %w", err)
	}

	art, err := c.Library.Summarize(ctx, req.Chat.ID, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.gone(ctx, req, id)
	}
	if err != nil {
		return nil, fmt.Errorf("summarize article: %w", err)
	}

	status := fmt.Sprintf("Summary of article #%d is ready.", id)
	if art.Summary.Failed() {
		status = fmt.Sprintf("Couldn't summarize article #%d.", id)
	}

	return renderList(req.Chat.ID, status, c.Library.List(ctx, req.Chat.ID))
}

func (c *Ctrl) delete(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	id, ok := articleID(req.Text)
	if !ok {
		return usage(req, cmdDelete), nil
	}

	err := c.Library.Delete(ctx, req.Chat.ID, id)
	if errors.Is(err, store.ErrNotFound) {
		return c.gone(ctx, req, id)
	}
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}

	status := fmt.Sprintf("Article #%d deleted.", id)
	return renderList(req.Chat.ID, status, c.Library.List(ctx, req.Chat.ID))
}

func (c *Ctrl) clear(ctx context.Context, req botx.Request) ([]botx.Response, error) {
	arts := c.Library.End(ctx, req.Chat.ID)
	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   fmt.Sprintf("Done, %d saved articles forgotten.", len(arts)),
	}}, nil
}

func (c *Ctrl) gone(ctx context.Context, req botx.Request, id int64) ([]botx.Response, error) {
	status := fmt.Sprintf("Article #%d is not in your list anymore.", id)
	return renderList(req.Chat.ID, status, c.Library.List(ctx, req.Chat.ID))
}

// NotifyAdmins sends a message to all admins.
func (c *Ctrl) NotifyAdmins(ctx context.Context, msg string) error {
	for _, adminID := range c.AdminIDs {
		if err := c.API.SendMessage(ctx, botx.Response{
			ChatID: adminID,
			Text:   msg,
		}); err != nil {
			return fmt.Errorf("send message to admin: %w", err)
		}
	}

	return nil
}

func usage(req botx.Request, cmd string) []botx.Response {
	return []botx.Response{{
		ChatID: req.Chat.ID,
		Text:   fmt.Sprintf("Please, specify the article number, e.g. %s 1", cmd),
	}}
}

// articleID parses the argument of commands like "/delete 3".
func articleID(text string) (int64, bool) {
	tokens := strings.Fields(text)
	if len(tokens) != 2 {
		return 0, false
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(tokens[1], "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}
