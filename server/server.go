// Package server assembles the HTTP server and its collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/studysense/studysense/internal/profile"
	"github.com/studysense/studysense/plugin/ai"
	"github.com/studysense/studysense/plugin/ai/major"
	"github.com/studysense/studysense/plugin/ai/suggest"
	apiv1 "github.com/studysense/studysense/server/router/api/v1"
	"github.com/studysense/studysense/server/service/suggestion"
	"github.com/studysense/studysense/store"
)

// Server is the studysense API server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewServer creates a new server wired to the given store.
func NewServer(ctx context.Context, p *profile.Profile, st *store.Store, logger *slog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())

	aiConfig := ai.NewConfigFromProfile(p)
	if err := aiConfig.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid AI config")
	}

	var llm ai.LLMService
	if aiConfig.Enabled {
		service, err := ai.NewLLMService(&aiConfig.LLM)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create LLM service")
		}
		llm = service
	} else {
		// Generation degrades to canned suggestions when AI is off.
		llm = ai.NewDisabledLLMService()
	}

	location, err := time.LoadLocation(p.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local",
			slog.String("timezone", p.Timezone), slog.String("error", err.Error()))
		location = time.Local
	}

	analyzer := major.NewAnalyzer(llm, st)
	aggregator := suggest.NewAggregator(st)
	generator := suggest.NewGenerator(llm, analyzer, location)
	suggestionService := suggestion.NewService(st, aggregator, generator)

	apiV1Service := apiv1.NewAPIV1Service(p, st, suggestionService, logger)
	apiV1Service.Register(e)

	return &Server{
		Profile:    p,
		Store:      st,
		echoServer: e,
	}, nil
}

// Start starts the HTTP listener. It blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	return s.echoServer.Start(address)
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}
}
