// Package server wires configuration, logging, the conversation store, the
// persona gateway and the HTTP surface into one runnable unit.
package server

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/the-last-flaw/refine-forge/logger"
	"github.com/the-last-flaw/refine-forge/server/ai"
	"github.com/the-last-flaw/refine-forge/server/chat"
	"github.com/the-last-flaw/refine-forge/server/config"
	httpserver "github.com/the-last-flaw/refine-forge/server/http"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

type Server struct {
	BuildOpts  config.BuildOpts
	logger     logger.Logger
	log        *zap.Logger
	config     config.Config
	ai         *ai.AI
	store      chat.Store
	gateway    *chat.Gateway
	chat       *chat.Chat
	personas   *config.PersonaWatcher
	httpServer *httpserver.Server
}

func NewServer(buildOpts config.BuildOpts) *Server {
	return &Server{
		BuildOpts: buildOpts,
	}
}

func (s *Server) Setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	s.config = s.BuildOpts.MakeConfig(cmd)

	isProd := s.config.Environment == config.EnvironmentProduction
	var err error
	s.logger, err = logger.NewLogger(logger.LoggerOpts{
		Level:        s.config.LogLevel,
		IsProduction: isProd,
		JSONConsole:  isProd,
	})
	if err != nil {
		return ctx, err
	}
	s.log = s.logger.Get()

	s.store, err = s.makeStore()
	if err != nil {
		return ctx, fmt.Errorf("store setup: %w", err)
	}

	s.ai = ai.NewAI(s.log, s.config.AI)
	s.gateway = chat.NewGateway(s.log, s.config.Gateway, s.ai)
	s.chat = chat.NewChat(s.log, s.store, s.gateway)
	s.httpServer = httpserver.NewServer(s.log, s.config.Server, s.chat)

	if s.config.PersonasFile != "" {
		s.personas, err = config.NewPersonaWatcher(s.log, s.config.PersonasFile)
		if err != nil {
			return ctx, fmt.Errorf("personas watcher setup: %w", err)
		}
		s.personas.AddCallback(s.gateway.SetTemplateOverrides)
	}

	return ctx, nil
}

func (s *Server) makeStore() (chat.Store, error) {
	switch s.config.Store {
	case config.StoreSQLite:
		s.log.Debug("Using sqlite conversation store", zap.String("dsn", s.config.StoreDSN))
		return chat.NewSQLiteStore(s.config.StoreDSN)
	default:
		return chat.NewMemoryStore(), nil
	}
}

func (s *Server) Run(runCtx context.Context) error {
	if err := s.ai.Start(runCtx); err != nil {
		return fmt.Errorf("start ai: %w", err)
	}

	if s.personas != nil {
		if err := s.personas.Start(runCtx); err != nil {
			return fmt.Errorf("start personas watcher: %w", err)
		}
	}

	return s.httpServer.Run(runCtx)
}

func (s *Server) BeginShutdown(ctx context.Context) error {
	if err := s.httpServer.BeginShutdown(ctx); err != nil {
		return fmt.Errorf("begin shutdown http server: %w", err)
	}
	return nil
}

// Shutdown resources in reverse order of the Setup/Run
func (s *Server) Shutdown(ctx context.Context) error {
	var errs error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if s.personas != nil {
		s.personas.Stop()
	}
	if err := s.ai.Stop(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("stop ai: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("close store: %w", err))
	}
	// Sync throws an error when logging to console (sync is for buffered file logging)
	// https://github.com/uber-go/zap/issues/880
	if err := s.log.Sync(); err != nil && !errors.Is(err, syscall.ENOTTY) {
		errs = errors.Join(errs, fmt.Errorf("sync logger: %w", err))
	}
	return errs
}

func (s *Server) ForceShutdown(ctx context.Context) error {
	return nil
}

func (s *Server) Logger() *zap.Logger {
	return s.logger.Get()
}
