package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futig/pdfqa/internal/cli"
	"github.com/futig/pdfqa/internal/watcher"
	"go.uber.org/zap"
)

// App is the development backend HTTP server.
type App struct {
	server *http.Server
	logger *zap.Logger
}

// Run starts the server and blocks until a shutdown signal or server error.
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

// CLIApp runs the terminal client and the optional folder watcher.
type CLIApp struct {
	repl    *cli.REPL
	watcher *watcher.Watcher
	logger  *zap.Logger
}

// Run blocks until the user quits, stdin closes or a shutdown signal arrives.
func (a *CLIApp) Run() error {
	defer a.logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchDone := make(chan struct{})
	if a.watcher != nil {
		go func() {
			defer close(watchDone)
			if err := a.watcher.Run(ctx); err != nil {
				a.logger.Error("Folder watcher stopped", zap.Error(err))
			}
		}()
	} else {
		close(watchDone)
	}

	err := a.repl.Run(ctx)
	cancel()
	<-watchDone

	return err
}
