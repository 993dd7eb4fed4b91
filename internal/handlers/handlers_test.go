package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/messages"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/settings"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type projectStore struct {
	mu    sync.Mutex
	items []projects.Project
}

func (s *projectStore) Create(ctx context.Context, item projects.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// newest first
	s.items = append([]projects.Project{item}, s.items...)
	return nil
}

func (s *projectStore) Update(ctx context.Context, id string, set bson.M) (projects.Project, error) {
	return projects.Project{}, mongo.ErrNoDocuments
}

func (s *projectStore) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

func (s *projectStore) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.items))
	s.items = nil
	return n, nil
}

func (s *projectStore) List(ctx context.Context) ([]projects.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]projects.Project(nil), s.items...), nil
}

func (s *projectStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

type messageStore struct {
	total, unread int64
}

func (s *messageStore) Create(ctx context.Context, msg messages.ContactMessage) error { return nil }
func (s *messageStore) List(ctx context.Context) ([]messages.ContactMessage, error) {
	return []messages.ContactMessage{}, nil
}
func (s *messageStore) MarkRead(ctx context.Context, id string) (bool, error) { return false, nil }
func (s *messageStore) Delete(ctx context.Context, id string) error          { return nil }
func (s *messageStore) Count(ctx context.Context, unreadOnly bool) (int64, error) {
	if unreadOnly {
		return s.unread, nil
	}
	return s.total, nil
}

type settingsStore struct{}

func (settingsStore) GetResume(ctx context.Context) (settings.ResumeSettings, error) {
	return settings.ResumeSettings{}, mongo.ErrNoDocuments
}

func (settingsStore) SetResume(ctx context.Context, url string, now time.Time) error { return nil }

const testPassword = "open-sesame"

func newTestRouter(t *testing.T, ping func(context.Context) error) http.Handler {
	t.Helper()
	cfg := &config.Config{CookieSecure: false}
	secret := auth.NewSecret(testPassword, "")
	tokens := &auth.Manager{
		Secret:     []byte("test-signing-key"),
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "portfolio-backend",
	}
	log := zerolog.Nop()
	val := validation.New()

	projectRepo := &projectStore{}
	seeder := projects.NewSeeder(projectRepo, nil, nil, time.UTC)
	projectService := projects.NewService(projectRepo, seeder, time.UTC)
	messageService := messages.NewService(&messageStore{total: 5, unread: 2}, time.UTC, nil)
	settingsService := settings.NewService(settingsStore{}, time.UTC)

	server := &Server{
		Cfg:      cfg,
		Secret:   secret,
		Tokens:   tokens,
		Projects: projectService,
		Messages: messageService,
		Val:      val,
		Log:      log,
		Ping:     ping,
	}
	routes := Routes{
		Server:   server,
		Projects: projects.NewHandler(projectService, seeder, val, log, nil, time.Minute),
		Messages: messages.NewHandler(messageService, val, log),
		Settings: settings.NewHandler(settingsService, secret, log, nil, time.Minute),
		Admin:    middleware.AdminAuth(secret, tokens),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	routes.Mount(r)
	return r
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func login(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, AdminLoginResponse) {
	t.Helper()
	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"`+testPassword+`"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AdminLoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return rec, resp
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"password":"guess"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if cookieNamed(rec, auth.AccessCookie) != nil {
		t.Fatalf("no cookie expected on failed login")
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	h := newTestRouter(t, nil)
	rec, resp := login(t, h)

	if resp.Token == "" || !resp.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	access := cookieNamed(rec, auth.AccessCookie)
	if access == nil || access.Value != resp.Token || !access.HttpOnly {
		t.Fatalf("unexpected access cookie: %+v", access)
	}
	if refresh := cookieNamed(rec, auth.RefreshCookie); refresh == nil || refresh.Path != refreshCookiePath {
		t.Fatalf("unexpected refresh cookie: %+v", refresh)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	h := newTestRouter(t, nil)

	for _, path := range []string{"/api/admin/stats", "/api/messages", "/api/v1/messages"} {
		rec := do(h, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}

	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/projects/reset", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("reset: expected 401, got %d", rec.Code)
	}
}

func TestAdminStatsWithBearerAndKey(t *testing.T) {
	h := newTestRouter(t, nil)
	_, resp := login(t, h)

	bearer := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	bearer.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := do(h, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var stats StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	defaults := len(projects.DefaultProjects())
	if stats.Projects != int64(defaults) || stats.Messages != 5 || stats.UnreadMessages != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if want := min(defaults, recentProjects); len(stats.RecentProjects) != want {
		t.Fatalf("expected %d recent projects, got %d", want, len(stats.RecentProjects))
	}

	keyed := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	keyed.Header.Set(middleware.AdminKeyHeader, testPassword)
	if rec := do(h, keyed); rec.Code != http.StatusOK {
		t.Fatalf("key: expected 200, got %d", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	h := newTestRouter(t, nil)
	loginRec, resp := login(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.AddCookie(cookieNamed(loginRec, auth.RefreshCookie))
	rec := do(h, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cookieNamed(rec, auth.AccessCookie) == nil {
		t.Fatalf("expected new access cookie")
	}

	// an access token is not a refresh token
	req = httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshCookie, Value: resp.Token})
	if rec := do(h, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	if rec := do(h, httptest.NewRequest(http.MethodPost, "/api/admin/refresh", nil)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing cookie: expected 401, got %d", rec.Code)
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := do(h, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, name := range []string{auth.AccessCookie, auth.RefreshCookie} {
		c := cookieNamed(rec, name)
		if c == nil || c.Value != "" || c.MaxAge >= 0 {
			t.Fatalf("cookie %s not cleared: %+v", name, c)
		}
	}
}

func TestPublicRoutesOnBothPrefixes(t *testing.T) {
	h := newTestRouter(t, nil)
	for _, path := range []string{"/api/projects", "/api/v1/projects", "/api/resume", "/api/v1/resume"} {
		rec := do(h, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestHealthz(t *testing.T) {
	if rec := do(newTestRouter(t, nil), httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	down := func(context.Context) error { return errors.New("no primary") }
	if rec := do(newTestRouter(t, down), httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
