package handlers

import (
	"context"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/messages"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/validation"

	"github.com/rs/zerolog"
)

// Server holds the admin session and dashboard endpoints.
type Server struct {
	Cfg      *config.Config
	Secret   *auth.Secret
	Tokens   *auth.Manager
	Projects *projects.Service
	Messages *messages.Service
	Val      *validation.Validator
	Log      zerolog.Logger
	// Ping checks the document store for /healthz.
	Ping func(ctx context.Context) error
}
