package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/Semior001/readlater/app/store"
	"github.com/Semior001/readlater/pkg/logx"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestDropExpiredSessions(t *testing.T) {
	sessions := store.NewSessions(store.SessionsOpts{TTL: 5 * time.Millisecond})
	sessions.Get("1").Append(store.Article{Title: "a"})
	sessions.Get("2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dropExpiredSessions(ctx, slog.New(logx.NoOp()), sessions, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sessions.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor didn't stop after context was canceled")
	}
}
