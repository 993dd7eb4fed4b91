package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/db"
	"portfolio-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type memRepo struct {
	mu    sync.Mutex
	items map[string]ContactMessage
	err   error
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]ContactMessage)}
}

func (r *memRepo) Create(ctx context.Context, msg ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items[msg.ID] = msg
	return nil
}

func (r *memRepo) List(ctx context.Context) ([]ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	items := make([]ContactMessage, 0, len(r.items))
	for _, m := range r.items {
		items = append(items, m)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *memRepo) MarkRead(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	m, ok := r.items[id]
	if !ok {
		return false, nil
	}
	m.Read = true
	r.items[id] = m
	return true, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.items, id)
	return nil
}

func (r *memRepo) Count(ctx context.Context, unreadOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, m := range r.items {
		if !unreadOnly || !m.Read {
			n++
		}
	}
	return n, nil
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []ContactMessage
	err  error
}

func (n *stubNotifier) SendContactNotification(ctx context.Context, msg ContactMessage) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return "msg-1", n.err
}

func newTestService(repo Repository, notifier Notifier) *Service {
	svc := NewService(repo, time.UTC, notifier)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		start = start.Add(time.Second)
		return start
	}
	return svc
}

func TestCreateStoresUnread(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, nil)

	msg, err := svc.Create(context.Background(), "Ada", "ada@example.com", "Hello there, nice site")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if msg.ID == "" || msg.Read || msg.CreatedAt.IsZero() {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if _, ok := repo.items[msg.ID]; !ok {
		t.Fatalf("message not stored")
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := svc.Create(ctx, name, name+"@example.com", "a long enough message"); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(items) != 3 || items[0].Name != "c" || items[2].Name != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestMarkReadTwice(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	ctx := context.Background()

	msg, err := svc.Create(ctx, "Ada", "ada@example.com", "a long enough message")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.MarkRead(ctx, msg.ID); err != nil {
			t.Fatalf("MarkRead %d error: %v", i, err)
		}
	}
	items, _ := svc.List(ctx)
	if len(items) != 1 || !items[0].Read {
		t.Fatalf("expected single read message, got %+v", items)
	}

	total, unread, err := svc.Counts(ctx)
	if err != nil || total != 1 || unread != 0 {
		t.Fatalf("Counts = %d, %d, %v", total, unread, err)
	}
}

func TestMarkReadMissing(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	if err := svc.MarkRead(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingSucceeds(t *testing.T) {
	svc := newTestService(newMemRepo(), nil)
	if err := svc.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("server selection timeout")
	svc := newTestService(repo, nil)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["create"] = svc.Create(ctx, "a", "a@example.com", "message text")
	_, checks["list"] = svc.List(ctx)
	checks["read"] = svc.MarkRead(ctx, "x")
	checks["delete"] = svc.Delete(ctx, "x")
	_, _, checks["counts"] = svc.Counts(ctx)

	for op, err := range checks {
		if !errors.Is(err, db.ErrStoreUnavailable) {
			t.Fatalf("%s: expected ErrStoreUnavailable, got %v", op, err)
		}
	}
}

func newTestRouter(repo *memRepo, notifier Notifier) (chi.Router, *Handler) {
	h := NewHandler(newTestService(repo, notifier), validation.New(), zerolog.Nop())
	h.notified = make(chan struct{}, 4)
	r := chi.NewRouter()
	r.Post("/messages", h.Create)
	r.Get("/messages", h.AdminList)
	r.Put("/messages/{id}/read", h.AdminMarkRead)
	r.Delete("/messages/{id}", h.AdminDelete)
	return r, h
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateNotifies(t *testing.T) {
	repo := newMemRepo()
	notifier := &stubNotifier{err: errors.New("smtp down")}
	r, h := newTestRouter(repo, notifier)

	rec := serve(r, http.MethodPost, "/messages", `{"name":"Ada","email":"ada@example.com","message":"I would like to hire you."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var msg ContactMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	select {
	case <-h.notified:
	case <-time.After(2 * time.Second):
		t.Fatalf("notification not attempted")
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.sent) != 1 || notifier.sent[0].ID != msg.ID {
		t.Fatalf("unexpected notifications: %+v", notifier.sent)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	cases := map[string]string{
		"blank name":    `{"name":"  ","email":"ada@example.com","message":"long enough message"}`,
		"bad email":     `{"name":"Ada","email":"not-an-email","message":"long enough message"}`,
		"short message": `{"name":"Ada","email":"ada@example.com","message":"hi"}`,
		"long message":  `{"name":"Ada","email":"ada@example.com","message":"` + strings.Repeat("é", 501) + `"}`,
	}
	for name, body := range cases {
		repo := newMemRepo()
		r, _ := newTestRouter(repo, nil)
		rec := serve(r, http.MethodPost, "/messages", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
		if len(repo.items) != 0 {
			t.Fatalf("%s: message stored despite validation failure", name)
		}
	}
}

func TestHandlerMessageAtLimit(t *testing.T) {
	repo := newMemRepo()
	r, h := newTestRouter(repo, nil)
	body := `{"name":"Ada","email":"ada@example.com","message":"` + strings.Repeat("é", 500) + `"}`
	rec := serve(r, http.MethodPost, "/messages", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	<-h.notified
}

func TestHandlerAdminRoutes(t *testing.T) {
	repo := newMemRepo()
	r, h := newTestRouter(repo, nil)
	svc := h.service
	msg, err := svc.Create(context.Background(), "Ada", "ada@example.com", "a long enough message")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	rec := serve(r, http.MethodGet, "/messages", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), msg.ID) {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(r, http.MethodPut, "/messages/"+msg.ID+"/read", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read: expected 200, got %d", rec.Code)
	}
	rec = serve(r, http.MethodPut, "/messages/missing/read", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("read missing: expected 404, got %d", rec.Code)
	}

	rec = serve(r, http.MethodDelete, "/messages/"+msg.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	if len(repo.items) != 0 {
		t.Fatalf("message not deleted")
	}
}
