package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/lawfinder/internal/api"
	"github.com/JaimeStill/lawfinder/internal/config"
	"github.com/JaimeStill/lawfinder/internal/infrastructure"
	"github.com/JaimeStill/lawfinder/pkg/middleware"
	"github.com/JaimeStill/lawfinder/pkg/module"
	"github.com/JaimeStill/lawfinder/web/scalar"
)

const referencePrefix = "/scalar"

// Server owns the shared infrastructure and the listener in front of the
// API and reference modules.
type Server struct {
	infra    *infrastructure.Infrastructure
	listener *listener
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	router, err := newRouter(cfg, infra)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	infra.Logger.Info(
		"lawfinder initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"oracle", cfg.Oracle.Enabled(),
		"strategy", cfg.Risk.Strategy,
	)

	return &Server{
		infra:    infra,
		listener: newListener(&cfg.Server, router, infra.Logger),
	}, nil
}

// newRouter mounts the API under its base path beside the health checks
// and the interactive reference.
func newRouter(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Router, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	reference := scalar.NewModule(referencePrefix, cfg.API.BasePath+api.SpecPath)
	reference.Use(middleware.Logger(infra.Logger))

	router := module.NewRouter()
	router.HandleNative("GET /healthz", liveness(cfg.Version))
	router.HandleNative("GET /readyz", readiness(infra.Lifecycle))
	router.Mount(apiModule)
	router.Mount(reference)
	return router, nil
}

func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.listener.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("ready", "pending", s.infra.Lifecycle.Pending())
	}()
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutting down", "timeout", timeout)
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return err
	}
	s.infra.Logger.Info("lawfinder stopped")
	return nil
}
