package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"

	"github.com/rs/zerolog"
)

type UpdateResumeRequest struct {
	URL      string `json:"url"`
	Password string `json:"password"`
}

type Handler struct {
	service  *Service
	secret   *auth.Secret
	log      zerolog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewHandler(service *Service, secret *auth.Secret, log zerolog.Logger, c cache.Cache, cacheTTL time.Duration) *Handler {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Handler{
		service:  service,
		secret:   secret,
		log:      log,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// GetResume answers null when no resume was ever set.
func (h *Handler) GetResume(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	if cached, ok, err := h.cache.Get(r.Context(), cache.KeyResume); err == nil && ok {
		transport.WriteRaw(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resume, err := h.service.GetResume(ctx)
	if err != nil {
		log.Error().Err(err).Msg("resume get: database error")
		transport.WriteError(w, http.StatusInternalServerError, "Failed to fetch resume", nil)
		return
	}

	payload, err := json.Marshal(resume)
	if err != nil {
		log.Error().Err(err).Msg("resume get: encode error")
		transport.WriteError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}
	if err := h.cache.Set(r.Context(), cache.KeyResume, payload, h.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("resume get: cache set failed")
	}

	transport.WriteRaw(w, http.StatusOK, payload)
}

func (h *Handler) AdminUpdateResume(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	var req UpdateResumeRequest
	if err := httpx.DecodeRequest(r, &req); err != nil {
		log.Warn().Err(err).Msg("admin resume update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if !h.secret.Verify(req.Password) {
		log.Warn().Msg("admin resume update: unauthorized")
		transport.WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		log.Warn().Msg("admin resume update: missing url")
		transport.WriteError(w, http.StatusBadRequest, "URL is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.SetResume(ctx, url); err != nil {
		log.Error().Err(err).Msg("admin resume update: database error")
		transport.WriteError(w, http.StatusInternalServerError, "Failed to update resume", nil)
		return
	}

	if err := h.cache.Delete(r.Context(), cache.KeyResume); err != nil {
		log.Warn().Err(err).Msg("resume cache invalidate failed")
	}

	log.Info().Msg("admin resume update: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "Resume updated successfully"})
}
