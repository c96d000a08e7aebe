// Package botapi contains implementations of bot API interfaces.
package botapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Semior001/readlater/pkg/botx"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"golang.org/x/exp/slog"
)

// maxMessageLen is the limit of telegram for a single message, in runes.
const maxMessageLen = 4096

// Telegram is a controller that handles requests from telegram.
type Telegram struct {
	log     *slog.Logger
	api     *tgbotapi.BotAPI
	updates chan botx.Request
	done    chan struct{}
}

// NewTelegram returns a new telegram bot controller.
func NewTelegram(lg *slog.Logger, token string, bufferSize int) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("make new api: %w", err)
	}

	stdlibLogger := slog.NewLogLogger(lg.Handler(), slog.LevelWarn)
	stdlibLogger.SetPrefix("telegram-bot-api: ")

	if err = tgbotapi.SetLogger(stdlibLogger); err != nil {
		return nil, fmt.Errorf("set logger: %w", err)
	}

	return &Telegram{
		log:     lg,
		api:     api,
		updates: make(chan botx.Request, bufferSize),
		done:    make(chan struct{}),
	}, nil
}

// Run runs telegram bot listener until Stop is called.
func (b *Telegram) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer close(b.updates)

	for {
		var update tgbotapi.Update
		select {
		case <-b.done:
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			update = upd
		}

		req, ok := b.request(update)
		if !ok {
			continue
		}

		select {
		case <-b.done:
			return
		case b.updates <- req:
		}
	}
}

func (b *Telegram) request(update tgbotapi.Update) (botx.Request, bool) {
	if cb := update.CallbackQuery; cb != nil {
		// stop the spinner on the pressed button
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			b.log.Warn("failed to answer callback query", slog.Any("err", err))
		}

		if cb.Message == nil || cb.Message.Chat == nil || cb.Data == "" {
			return botx.Request{}, false
		}

		req := botx.Request{
			MessageID: strconv.Itoa(cb.Message.MessageID),
			Chat:      botx.Chat{ID: strconv.FormatInt(cb.Message.Chat.ID, 10)},
			Text:      cb.Data,
			Callback:  true,
		}
		if cb.From != nil {
			req.Chat.Username = cb.From.UserName
		}

		return req, true
	}

	if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
		return botx.Request{}, false
	}

	return botx.Request{
		MessageID: strconv.Itoa(update.Message.MessageID),
		Chat: botx.Chat{
			ID:       strconv.FormatInt(update.Message.Chat.ID, 10),
			Username: update.Message.Chat.UserName,
		},
		Text: update.Message.Text,
	}, true
}

// Stop stops telegram bot listener.
func (b *Telegram) Stop() {
	b.api.StopReceivingUpdates()
	close(b.done)
}

// Updates returns updates channel.
func (b *Telegram) Updates() <-chan botx.Request {
	return b.updates
}

// SendMessage sends message to telegram user.
// Long messages are split into several ones.
func (b *Telegram) SendMessage(ctx context.Context, resp botx.Response) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msgs, err := makeMessages(resp)
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		if _, err = b.api.Send(msg); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return nil
}

func makeMessages(resp botx.Response) ([]tgbotapi.MessageConfig, error) {
	chatID, err := strconv.ParseInt(resp.ChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse chat id: %w", err)
	}

	var replyTo int
	if resp.ReplyToMessageID != "" {
		if replyTo, err = strconv.Atoi(resp.ReplyToMessageID); err != nil {
			return nil, fmt.Errorf("parse reply to message id: %w", err)
		}
	}

	parts := splitText(resp.Text, maxMessageLen)
	msgs := make([]tgbotapi.MessageConfig, 0, len(parts))

	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true

		if i == 0 {
			msg.ReplyToMessageID = replyTo
		}

		if i == len(parts)-1 && len(resp.Buttons) > 0 {
			msg.ReplyMarkup = keyboard(resp.Buttons)
		}

		msgs = append(msgs, msg)
	}

	return msgs, nil
}

func keyboard(rows [][]botx.Button) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(lo.Map(rows, func(row []botx.Button, _ int) []tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardRow(lo.Map(row, func(btn botx.Button, _ int) tgbotapi.InlineKeyboardButton {
			return tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data)
		})...)
	})...)
}

// splitText splits text into parts of at most limit runes, preferably
// at line breaks.
func splitText(text string, limit int) []string {
	var parts []string

	for {
		runes := []rune(text)
		if len(runes) <= limit {
			return append(parts, text)
		}

		cut := limit
		if nl := strings.LastIndex(string(runes[:limit]), "\n"); nl > 0 {
			cut = len([]rune(string(runes[:limit])[:nl])) + 1
		}

		parts = append(parts, string(runes[:cut]))
		text = string(runes[cut:])
	}
}
