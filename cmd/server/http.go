package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/pkg/lifecycle"
)

// listener serves the API and drains in-flight discovery runs when the
// coordinator cancels.
type listener struct {
	srv    *http.Server
	grace  time.Duration
	logger *slog.Logger
}

func newListener(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *listener {
	return &listener{
		srv:    cfg.HTTP(handler),
		grace:  cfg.Grace(),
		logger: logger.With("system", "http"),
	}
}

func (l *listener) Start(lc *lifecycle.Coordinator) error {
	go l.serve()

	lc.OnShutdown("http", l.drain)
	return nil
}

func (l *listener) serve() {
	l.logger.Info("listening", "addr", l.srv.Addr)
	err := l.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.logger.Error("listener stopped", "error", err)
	}
}

func (l *listener) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), l.grace)
	defer cancel()

	start := time.Now()
	if err := l.srv.Shutdown(ctx); err != nil {
		l.logger.Error("drain incomplete", "error", err, "grace", l.grace)
		return
	}
	l.logger.Info("drained", "elapsed", time.Since(start))
}
