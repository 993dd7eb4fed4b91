package handlers

import (
	"context"
	"net/http"
	"time"

	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/transport"

	"golang.org/x/sync/errgroup"
)

const recentProjects = 3

type StatsResponse struct {
	Projects       int64              `json:"projects"`
	Messages       int64              `json:"messages"`
	UnreadMessages int64              `json:"unreadMessages"`
	RecentProjects []projects.Project `json:"recentProjects"`
}

func (s *Server) AdminStats(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, s.Log)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	var resp StatsResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.Projects.List(gctx)
		if err != nil {
			return err
		}
		resp.Projects = int64(len(items))
		if len(items) > recentProjects {
			items = items[:recentProjects]
		}
		resp.RecentProjects = items
		return nil
	})
	g.Go(func() error {
		total, unread, err := s.Messages.Counts(gctx)
		if err != nil {
			return err
		}
		resp.Messages, resp.UnreadMessages = total, unread
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("admin stats: database error")
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info().Msg("admin stats: ok")
	transport.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if s.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Ping(ctx); err != nil {
			log := middleware.LoggerFor(r, s.Log)
			log.Error().Err(err).Msg("healthz: store unreachable")
			transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
