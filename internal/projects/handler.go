package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type CreateRequest struct {
	Title       string      `json:"title" validate:"nonblank"`
	Description string      `json:"description" validate:"nonblank"`
	Category    string      `json:"category" validate:"nonblank"`
	TechStack   TechStack   `json:"techStack"`
	Link        string      `json:"link"`
	Featured    bool        `json:"featured"`
	ImageURL    string      `json:"imageUrl"`
	ImageID     string      `json:"imageId"`
	Milestones  []Milestone `json:"milestones" validate:"omitempty,dive"`
}

// UpdateRequest fields left out of the body stay untouched. An empty link or
// imageUrl clears the stored value.
type UpdateRequest struct {
	Title       *string      `json:"title" validate:"omitempty,nonblank"`
	Description *string      `json:"description" validate:"omitempty,nonblank"`
	Category    *string      `json:"category" validate:"omitempty,nonblank"`
	TechStack   *TechStack   `json:"techStack"`
	Link        *string      `json:"link"`
	Featured    *bool        `json:"featured"`
	ImageURL    *string      `json:"imageUrl"`
	ImageID     *string      `json:"imageId"`
	Milestones  *[]Milestone `json:"milestones" validate:"omitempty,dive"`
}

func (req CreateRequest) fields() Fields {
	return Fields{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		TechStack:   []string(req.TechStack),
		Link:        strings.TrimSpace(req.Link),
		Featured:    req.Featured,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		ImageID:     strings.TrimSpace(req.ImageID),
		Milestones:  req.Milestones,
	}
}

func (req UpdateRequest) patch() Patch {
	p := Patch{
		Title:       trimmed(req.Title),
		Description: trimmed(req.Description),
		Category:    trimmed(req.Category),
		Link:        trimmed(req.Link),
		Featured:    req.Featured,
		ImageURL:    trimmed(req.ImageURL),
		ImageID:     trimmed(req.ImageID),
		Milestones:  req.Milestones,
	}
	if req.TechStack != nil {
		tags := []string(*req.TechStack)
		p.TechStack = &tags
	}
	return p
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

type Handler struct {
	service  *Service
	seeder   *Seeder
	val      *validation.Validator
	log      zerolog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewHandler(service *Service, seeder *Seeder, val *validation.Validator, log zerolog.Logger, c cache.Cache, cacheTTL time.Duration) *Handler {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Handler{
		service:  service,
		seeder:   seeder,
		val:      val,
		log:      log,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	if cached, ok, err := h.cache.Get(r.Context(), cache.KeyProjects); err == nil && ok {
		log.Debug().Msg("projects list: cache hit")
		transport.WriteRaw(w, http.StatusOK, cached)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("projects list: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	payload, err := json.Marshal(map[string]interface{}{"items": items})
	if err != nil {
		log.Error().Err(err).Msg("projects list: encode error")
		transport.WriteError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}
	if err := h.cache.Set(r.Context(), cache.KeyProjects, payload, h.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("projects list: cache set failed")
	}

	log.Info().Int("count", len(items)).Msg("projects list: ok")
	transport.WriteRaw(w, http.StatusOK, payload)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	var req CreateRequest
	if err := httpx.DecodeRequest(r, &req); err != nil {
		log.Warn().Err(err).Msg("admin projects create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn().Msg("admin projects create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req.fields())
	if err != nil {
		log.Error().Err(err).Msg("admin projects create: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidate(r.Context(), log)
	log.Info().Str("project_id", item.ID).Msg("admin projects create: ok")
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn().Msg("admin projects update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeRequest(r, &req); err != nil {
		log.Warn().Err(err).Msg("admin projects update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn().Msg("admin projects update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req.patch())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("project_id", id).Msg("admin projects update: not found")
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		log.Error().Err(err).Msg("admin projects update: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidate(r.Context(), log)
	log.Info().Str("project_id", id).Msg("admin projects update: ok")
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn().Msg("admin projects delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		log.Error().Err(err).Msg("admin projects delete: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidate(r.Context(), log)
	log.Info().Str("project_id", id).Msg("admin projects delete: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, h.log)

	count, err := h.seeder.ResetAndSeed(r.Context())
	// the cache goes either way: a failed reset may still have written
	h.invalidate(r.Context(), log)
	if err != nil {
		log.Error().Err(err).Msg("admin projects reset: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info().Int("count", count).Msg("admin projects reset: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reset",
		"count":  count,
	})
}

func (h *Handler) invalidate(ctx context.Context, log zerolog.Logger) {
	if err := h.cache.Delete(ctx, cache.KeyProjects); err != nil {
		log.Warn().Err(err).Msg("projects cache invalidate failed")
	}
}
