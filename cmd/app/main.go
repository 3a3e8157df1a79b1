// @title       Order Desk API
// @version     1.0
// @description Admin desk for marketplace orders: status changes, bulk actions with undo, live order views.
// @BasePath    /api/v1

//go:generate swag init -g main.go -d ./,../../internal/adapters/in/http -o ../../internal/adapters/in/http/docs --outputTypes go

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderdesk/cmd"
	"orderdesk/internal/pkg/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(configs.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, configs, zl); err != nil {
		zl.Fatal("orderdesk stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, configs cmd.Config, zl *zap.Logger) error {
	app, err := cmd.NewCompositionRoot(ctx, configs, zl)
	if err != nil {
		return err
	}
	if err = app.Start(ctx); err != nil {
		return err
	}

	e := app.CreateHTTPServer()
	serverErr := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.String("port", configs.HTTPPort))
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-serverErr:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		zl.Warn("http server shutdown", zap.Error(shutdownErr))
	}
	return errors.Join(serveErr, app.Close(shutdownCtx))
}
