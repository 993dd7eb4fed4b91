package messages

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const notifyTimeout = 8 * time.Second

type Handler struct {
	service *Service
	val     *validation.Validator
	log     zerolog.Logger
	// notified is signalled after each notification attempt; tests only.
	notified chan struct{}
}

func NewHandler(service *Service, val *validation.Validator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	var req CreateRequest
	if err := httpx.DecodeRequest(r, &req); err != nil {
		log.Warn().Err(err).Msg("messages create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn().Msg("messages create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	msg, err := h.service.Create(ctx,
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Email),
		strings.TrimSpace(req.Message),
	)
	if err != nil {
		log.Error().Err(err).Msg("messages create: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	go h.notify(msg)

	log.Info().Str("message_id", msg.ID).Msg("messages create: ok")
	transport.WriteJSON(w, http.StatusCreated, msg)
}

func (h *Handler) notify(msg ContactMessage) {
	defer func() {
		if h.notified != nil {
			h.notified <- struct{}{}
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := h.service.NotifyNewMessage(ctx, msg); err != nil {
		h.log.Warn().Err(err).Str("message_id", msg.ID).Msg("messages create: notification failed")
	}
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("admin messages list: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info().Int("count", len(items)).Msg("admin messages list: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) AdminMarkRead(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn().Msg("admin messages read: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.MarkRead(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("message_id", id).Msg("admin messages read: not found")
			transport.WriteError(w, http.StatusNotFound, "message not found", nil)
			return
		}
		log.Error().Err(err).Msg("admin messages read: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info().Str("message_id", id).Msg("admin messages read: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn().Msg("admin messages delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		log.Error().Err(err).Msg("admin messages delete: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info().Str("message_id", id).Msg("admin messages delete: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
