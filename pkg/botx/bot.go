// Package botx provides interfaces and types to handle bot updates,
// with a chi-like router.
package botx

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/Semior001/readlater/pkg/logx"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_api.go . API

// API defines methods for an API interface to receive and send chat messages.
type API interface {
	Updates() <-chan Request
	SendMessage(ctx context.Context, resp Response) error
}

// Bot defines parameters for running a bot over some API.
type Bot struct {
	h   Handler
	api API
	Options
}

// NewBot creates a new Bot.
func NewBot(h Handler, api API, opts ...Option) *Bot {
	options := Options{
		Workers: 1,
		Logger:  slog.New(logx.NoOp()),
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Bot{
		h:       h,
		api:     api,
		Options: options,
	}
}

// Run starts updates listener.
func (b *Bot) Run(ctx context.Context) {
	if b.Workers < 1 {
		b.Workers = 1
	}

	queues := make([]<-chan Request, b.Workers)
	for i := range queues {
		queues[i] = b.api.Updates()
	}

	if b.SerialChats {
		queues = b.dispatch(ctx)
	}

	wg := &sync.WaitGroup{}
	wg.Add(b.Workers)

	for i := 0; i < b.Workers; i++ {
		go func(idx int) {
			b.Logger.InfoCtx(ctx, "starting worker", slog.Int("worker", idx))

			defer func() {
				b.Logger.InfoCtx(ctx, "stopping worker", slog.Int("worker", idx))
				wg.Done()
			}()

			for {
				select {
				case <-ctx.Done():
					return
				case req, ok := <-queues[idx]:
					if !ok {
						return
					}
					b.handleUpdate(ctx, req)
				}
			}
		}(i)
	}

	wg.Wait()
}

// dispatch spreads updates over per-worker queues, so that all requests
// of a chat land on the same worker.
func (b *Bot) dispatch(ctx context.Context) []<-chan Request {
	queues := make([]chan Request, b.Workers)
	res := make([]<-chan Request, b.Workers)
	for i := range queues {
		queues[i] = make(chan Request)
		res[i] = queues[i]
	}

	go func() {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()

		for {
			var req Request
			select {
			case <-ctx.Done():
				return
			case r, ok := <-b.api.Updates():
				if !ok {
					return
				}
				req = r
			}

			select {
			case <-ctx.Done():
				return
			case queues[shard(req.Chat.ID, len(queues))] <- req:
			}
		}
	}()

	return res
}

func shard(chatID string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(chatID))
	return int(h.Sum32() % uint32(n))
}

func (b *Bot) handleUpdate(ctx context.Context, req Request) {
	resps, err := b.h(ctx, req)
	if err != nil {
		b.Logger.ErrorCtx(ctx, "failed to handle request", slog.Any("err", err))
	}

	for _, resp := range resps {
		if err := b.api.SendMessage(ctx, resp); err != nil {
			b.Logger.WarnCtx(ctx, "failed to send message", slog.Any("err", err))
		}
	}
}
