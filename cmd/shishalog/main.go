package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/vbonduro/shishalog/internal/config"
	"github.com/vbonduro/shishalog/internal/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	injector := di.NewContainer(cfg)

	logger, err := do.Invoke[*di.LoggerHandle](injector)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	srv, err := do.Invoke[*di.HTTPServerHandle](injector)
	if err != nil {
		logger.Error("failed to start", "error", err)
		injector.Shutdown()
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
