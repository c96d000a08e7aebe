package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Semior001/readlater/app/store"
	"github.com/Semior001/readlater/app/tui"
	"github.com/Semior001/readlater/pkg/logx"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/exp/slog"
)

const localSession = "local"

// Local is a command to run a terminal shell for a single session.
type Local struct {
	Revisor Revisor `group:"revisor" namespace:"revisor" env-namespace:"REVISOR"`
	LogFile string  `long:"log-file" env:"LOG_FILE" description:"file to write logs to, logs are dropped if empty"`
}

// Execute runs the command.
func (l Local) Execute(_ []string) error {
	// the terminal is taken by the shell, so logs go to a file, if any
	lg := slog.New(logx.NoOp())
	if l.LogFile != "" {
		f, err := os.OpenFile(l.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		lg = slog.New(&logx.Chain{
			Middleware: []logx.Middleware{logx.RequestID},
			Handler:    slog.HandlerOptions{Level: slog.LevelDebug}.NewTextHandler(f),
		})
	}

	lib := l.Revisor.library(lg, store.NewSessions(store.SessionsOpts{}))

	m := tui.NewModel(context.Background(), lib, localSession)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run terminal shell: %w", err)
	}

	return nil
}
