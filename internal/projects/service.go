package projects

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("project not found")

type Service struct {
	repo     Repository
	seeder   *Seeder
	location *time.Location
	now      func() time.Time
}

// NewService returns a project service. When seeder is non-nil, listing an
// empty collection seeds it with the default projects first.
func NewService(repo Repository, seeder *Seeder, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:     repo,
		seeder:   seeder,
		location: location,
		now:      time.Now,
	}
}

// List returns every project, newest first.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, db.Unavailable("list projects", err)
	}
	if len(items) > 0 || s.seeder == nil {
		return items, nil
	}

	if _, err := s.seeder.EnsureSeeded(ctx); err != nil {
		return nil, err
	}
	items, err = s.repo.List(ctx)
	if err != nil {
		return nil, db.Unavailable("list projects", err)
	}
	return items, nil
}

// Create stores f as a new project. Required-field checks belong to the caller.
func (s *Service) Create(ctx context.Context, f Fields) (Project, error) {
	now := s.now().In(s.location)
	item := newProject(f, now)
	if err := s.repo.Create(ctx, item); err != nil {
		return Project{}, db.Unavailable("create project", err)
	}
	return item, nil
}

func newProject(f Fields, createdAt time.Time) Project {
	return Project{
		ID:          primitive.NewObjectID().Hex(),
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		TechStack:   normalizeTags(f.TechStack),
		Link:        f.Link,
		Featured:    f.Featured,
		ImageURL:    f.ImageURL,
		ImageID:     f.ImageID,
		Milestones:  normalizeMilestones(f.Milestones),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// Update applies the non-nil fields of p and returns the stored result.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Project, error) {
	set := p.toSet()
	set["updatedAt"] = s.now().In(s.location)

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, db.Unavailable("update project", err)
	}
	return updated, nil
}

// Delete removes a project. A missing id is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return db.Unavailable("delete project", err)
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, db.Unavailable("count projects", err)
	}
	return n, nil
}

func (p Patch) toSet() bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.TechStack != nil {
		set["techStack"] = normalizeTags(*p.TechStack)
	}
	if p.Link != nil {
		set["link"] = *p.Link
	}
	if p.Featured != nil {
		set["featured"] = *p.Featured
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	if p.ImageID != nil {
		set["imageId"] = *p.ImageID
	}
	if p.Milestones != nil {
		set["milestones"] = normalizeMilestones(*p.Milestones)
	}
	return set
}

// normalizeMilestones keeps order and unique ids, and assigns a fresh id to
// entries whose id is empty or already taken.
func normalizeMilestones(in []Milestone) []Milestone {
	if len(in) == 0 {
		return nil
	}
	out := make([]Milestone, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, m := range in {
		m.ID = strings.TrimSpace(m.ID)
		if _, dup := seen[m.ID]; m.ID == "" || dup {
			m.ID = primitive.NewObjectID().Hex()
		}
		seen[m.ID] = struct{}{}
		out[i] = m
	}
	return out
}
