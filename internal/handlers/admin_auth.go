package handlers

import (
	"net/http"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/httpx"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/transport"

	"github.com/rs/zerolog"
)

// refreshCookiePath covers both /api/admin and /api/v1/admin.
const refreshCookiePath = "/api"

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, s.Log)
	var req AdminLoginRequest
	if err := httpx.DecodeRequest(r, &req); err != nil {
		log.Warn().Msg("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn().Msg("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	if !s.Secret.Configured() || s.Tokens == nil {
		log.Warn().Msg("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	if !s.Secret.Verify(req.Password) {
		log.Warn().Msg("admin login: invalid credentials")
		transport.WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	s.issueTokens(w, log, "admin login")
}

func (s *Server) AdminRefresh(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, s.Log)
	if s.Tokens == nil {
		log.Warn().Msg("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	refreshCookie, err := r.Cookie(auth.RefreshCookie)
	if err != nil || refreshCookie.Value == "" {
		log.Warn().Msg("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	claims, err := s.Tokens.Parse(refreshCookie.Value)
	if err != nil || claims.Role != auth.RoleAdmin || claims.Kind != auth.KindRefresh {
		log.Warn().Msg("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	s.issueTokens(w, log, "admin refresh")
}

func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	log := middleware.LoggerFor(r, s.Log)
	clearAuthCookies(w, s.Cfg.CookieSecure)
	log.Info().Msg("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) issueTokens(w http.ResponseWriter, log zerolog.Logger, op string) {
	access, err := s.Tokens.NewAccessToken(auth.RoleAdmin)
	if err != nil {
		log.Error().Err(err).Msg(op + ": token error")
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refresh, err := s.Tokens.NewRefreshToken(auth.RoleAdmin)
	if err != nil {
		log.Error().Err(err).Msg(op + ": token error")
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	setAuthCookies(w, access, refresh, s.Cfg.CookieSecure)
	log.Info().Msg(op + ": ok")
	transport.WriteJSON(w, http.StatusOK, AdminLoginResponse{
		Status:    "ok",
		Token:     access.Value,
		ExpiresAt: access.ExpiresAt,
	})
}

func setAuthCookies(w http.ResponseWriter, access, refresh auth.Token, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookie,
		Value:    access.Value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  access.ExpiresAt,
		MaxAge:   int(time.Until(access.ExpiresAt).Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshCookie,
		Value:    refresh.Value,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  refresh.ExpiresAt,
		MaxAge:   int(time.Until(refresh.ExpiresAt).Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	expire := time.Now().Add(-1 * time.Hour)
	for name, path := range map[string]string{auth.AccessCookie: "/", auth.RefreshCookie: refreshCookiePath} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			Expires:  expire,
			MaxAge:   -1,
		})
	}
}
