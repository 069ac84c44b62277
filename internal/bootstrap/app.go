package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/yanqian/userdirectory/internal/domain/directory"
	"github.com/yanqian/userdirectory/internal/interface/console"
)

// App encapsulates the console session lifecycle.
type App struct {
	logger  *slog.Logger
	svc     directory.Service
	console *console.Console
	in      io.Reader
	out     io.Writer
}

// NewApp is used by Wire to build the runnable app.
func NewApp(logger *slog.Logger, svc directory.Service, c *console.Console) *App {
	return &App{
		logger:  logger.With("component", "bootstrap"),
		svc:     svc,
		console: c,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run serves the console and blocks until input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("user directory ready", "users", a.svc.GetUserCount())
	if err := a.console.Serve(ctx, a.in, a.out); err != nil {
		return err
	}
	if ctx.Err() != nil {
		a.logger.Info("shutdown signal received")
	}
	a.logger.Info("user directory stopped", "users", a.svc.GetUserCount())
	return nil
}
