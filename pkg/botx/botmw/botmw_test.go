package botmw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Semior001/readlater/pkg/botx"
	"github.com/Semior001/readlater/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestTimeout(t *testing.T) {
	slow := func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return []botx.Response{{Text: "late"}}, nil
		}
	}

	_, err := Timeout(10*time.Millisecond)(slow)(context.Background(), botx.Request{})
	assert.ErrorIs(t, err, ErrTimeout)

	fast := func(context.Context, botx.Request) ([]botx.Response, error) {
		return []botx.Response{{Text: "ok"}}, nil
	}

	resps, err := Timeout(time.Second)(fast)(context.Background(), botx.Request{})
	require.NoError(t, err)
	assert.Equal(t, []botx.Response{{Text: "ok"}}, resps)
}

func TestRequestID(t *testing.T) {
	h := botx.Handler(func(ctx context.Context, req botx.Request) ([]botx.Response, error) {
		id, ok := logx.RequestIDFromContext(ctx)
		require.True(t, ok)
		assert.NotEmpty(t, id)
		return nil, nil
	})

	_, err := RequestID()(h)(context.Background(), botx.Request{})
	require.NoError(t, err)
}

func TestAppendRequestIDOnError(t *testing.T) {
	h := AppendRequestIDOnError()(func(context.Context, botx.Request) ([]botx.Response, error) {
		return nil, errors.New("boom")
	})

	ctx := logx.ContextWithRequestID(context.Background(), "req-1")
	resps, err := h(ctx, botx.Request{Chat: botx.Chat{ID: "42"}})
	assert.EqualError(t, err, "boom")
	require.Len(t, resps, 1)
	assert.Equal(t, "42", resps[0].ChatID)
	assert.Contains(t, resps[0].Text, "Something went wrong")
	assert.Contains(t, resps[0].Text, "req-1")
}

func TestRecover(t *testing.T) {
	h := Recover(slog.New(logx.NoOp()))(func(context.Context, botx.Request) ([]botx.Response, error) {
		panic("oops")
	})

	assert.NotPanics(t, func() {
		_, err := h(context.Background(), botx.Request{})
		assert.EqualError(t, err, "panic: oops")
	})
}
