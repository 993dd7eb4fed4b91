package messages

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("message not found")

type Notifier interface {
	SendContactNotification(ctx context.Context, msg ContactMessage) (string, error)
}

type Service struct {
	repo     Repository
	location *time.Location
	notifier Notifier
	now      func() time.Time
}

// NewService returns a message service. notifier may be nil.
func NewService(repo Repository, location *time.Location, notifier Notifier) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		location: location,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create stores a new unread message. Input checks belong to the caller.
func (s *Service) Create(ctx context.Context, name, email, message string) (ContactMessage, error) {
	msg := ContactMessage{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		Email:     email,
		Message:   message,
		Read:      false,
		CreatedAt: s.now().In(s.location),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return ContactMessage{}, db.Unavailable("create message", err)
	}
	return msg, nil
}

// List returns every message, newest first.
func (s *Service) List(ctx context.Context) ([]ContactMessage, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.Unavailable("list messages", err)
	}
	return items, nil
}

// MarkRead flags a message as read. Marking an already read message succeeds.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	found, err := s.repo.MarkRead(ctx, strings.TrimSpace(id))
	if err != nil {
		return db.Unavailable("mark message read", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Delete removes a message. A missing id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	return db.Unavailable("delete message", s.repo.Delete(ctx, strings.TrimSpace(id)))
}

// Counts returns the total and unread message counts.
func (s *Service) Counts(ctx context.Context) (total, unread int64, err error) {
	total, err = s.repo.Count(ctx, false)
	if err != nil {
		return 0, 0, db.Unavailable("count messages", err)
	}
	unread, err = s.repo.Count(ctx, true)
	if err != nil {
		return 0, 0, db.Unavailable("count unread messages", err)
	}
	return total, unread, nil
}

func (s *Service) NotifyNewMessage(ctx context.Context, msg ContactMessage) error {
	if s.notifier == nil {
		return nil
	}
	_, err := s.notifier.SendContactNotification(ctx, msg)
	return err
}
