// Package v1 wires the REST API surface.
package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/studysense/studysense/internal/profile"
	"github.com/studysense/studysense/server/auth"
	"github.com/studysense/studysense/server/middleware"
	"github.com/studysense/studysense/server/service/suggestion"
	"github.com/studysense/studysense/store"
)

// APIV1Service holds the v1 API handlers and their collaborators.
type APIV1Service struct {
	Profile           *profile.Profile
	Store             *store.Store
	SuggestionService *suggestion.Service
	Logger            *slog.Logger

	authenticator *auth.Authenticator
	rateLimiter   *middleware.RateLimiter
}

// NewAPIV1Service creates the v1 API service.
func NewAPIV1Service(p *profile.Profile, st *store.Store, suggestionService *suggestion.Service, logger *slog.Logger) *APIV1Service {
	return &APIV1Service{
		Profile:           p,
		Store:             st,
		SuggestionService: suggestionService,
		Logger:            logger,
		authenticator:     auth.New(p.JWTSecret),
		rateLimiter:       middleware.NewRateLimiter(),
	}
}

// Register mounts the v1 routes on the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1", s.authenticator.Middleware(), s.rateLimiter.Middleware())

	g.GET("/suggestions", s.GetSuggestions)
	g.POST("/suggestions/dismiss", s.DismissSuggestion)
	g.POST("/suggestions/promote", s.PromoteSuggestion)
	g.DELETE("/calendar/events/:id", s.DeleteCalendarEvent)
}
