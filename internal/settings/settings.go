package settings

import (
	"context"
	"errors"
	"time"

	"portfolio-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResumeID is the _id of the one resume document.
const ResumeID = "resume"

type ResumeSettings struct {
	URL       string    `bson:"url" json:"url"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Repository interface {
	// GetResume returns mongo.ErrNoDocuments when the resume was never set.
	GetResume(ctx context.Context) (ResumeSettings, error)
	SetResume(ctx context.Context, url string, now time.Time) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetResume(ctx context.Context) (ResumeSettings, error) {
	var out ResumeSettings
	if err := r.col.FindOne(ctx, bson.M{"_id": ResumeID}).Decode(&out); err != nil {
		return ResumeSettings{}, err
	}
	return out, nil
}

func (r *MongoRepository) SetResume(ctx context.Context, url string, now time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": ResumeID},
		bson.M{"$set": bson.M{"url": url, "updatedAt": now}},
		options.Update().SetUpsert(true),
	)
	return err
}

type Service struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, location: location, now: time.Now}
}

// GetResume returns nil when no resume has been set.
func (s *Service) GetResume(ctx context.Context) (*ResumeSettings, error) {
	out, err := s.repo.GetResume(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, db.Unavailable("get resume", err)
	}
	return &out, nil
}

// SetResume replaces the stored resume url, creating the record if needed.
func (s *Service) SetResume(ctx context.Context, url string) error {
	return db.Unavailable("set resume", s.repo.SetResume(ctx, url, s.now().In(s.location)))
}
