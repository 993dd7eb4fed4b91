package projects

import (
	"context"
	"time"

	"portfolio-backend/internal/db"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultResetTimeout = 30 * time.Second

// Seeder owns the default project set. EnsureSeeded fills an empty collection;
// ResetAndSeed wipes projects and images and writes the defaults again.
//
// Without an atomic TxRunner a reset is best effort: the deletes and inserts
// are independent writes and a failure part way leaves whatever already
// landed. Two first readers racing EnsureSeeded can both insert the defaults.
type Seeder struct {
	projects Repository
	images   ImageRepository
	tx       db.TxRunner
	location *time.Location
	now      func() time.Time
	timeout  time.Duration
	group    singleflight.Group
}

// NewSeeder builds a seeder. images may be nil, in which case no image records
// are written and seeded projects carry only ImageURL.
func NewSeeder(projects Repository, images ImageRepository, tx db.TxRunner, location *time.Location) *Seeder {
	if tx == nil {
		tx = db.NoTx{}
	}
	if location == nil {
		location = time.UTC
	}
	return &Seeder{
		projects: projects,
		images:   images,
		tx:       tx,
		location: location,
		now:      time.Now,
		timeout:  defaultResetTimeout,
	}
}

// EnsureSeeded inserts the defaults iff the project collection is empty and
// reports whether it did.
func (s *Seeder) EnsureSeeded(ctx context.Context) (bool, error) {
	n, err := s.projects.Count(ctx)
	if err != nil {
		return false, db.Unavailable("count projects", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.seed(ctx, false); err != nil {
		return false, err
	}
	return true, nil
}

// ResetAndSeed deletes every project and project image and inserts the
// defaults. Concurrent calls share one run. The run is detached from ctx
// cancellation so a caller going away does not abort a batch other callers
// are waiting on.
func (s *Seeder) ResetAndSeed(ctx context.Context) (int, error) {
	v, err, _ := s.group.Do("reset", func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if s.tx.Atomic() {
			err := s.tx.WithTransaction(runCtx, func(txCtx context.Context) error {
				return s.reset(txCtx, false)
			})
			return len(defaultProjects), db.Unavailable("reset projects", err)
		}
		return len(defaultProjects), s.reset(runCtx, true)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Seeder) reset(ctx context.Context, parallel bool) error {
	steps := []func(context.Context) error{
		func(ctx context.Context) error {
			_, err := s.projects.DeleteAll(ctx)
			return db.Unavailable("delete projects", err)
		},
	}
	if s.images != nil {
		steps = append(steps, func(ctx context.Context) error {
			_, err := s.images.DeleteAll(ctx)
			return db.Unavailable("delete project images", err)
		})
	}
	if err := run(ctx, parallel, steps); err != nil {
		return err
	}
	return s.seed(ctx, parallel)
}

// seed writes the images first, then the projects referencing them. Project i
// is stamped i milliseconds before project 0 so newest-first listing keeps
// the declared order however the inserts interleave.
func (s *Seeder) seed(ctx context.Context, parallel bool) error {
	base := s.now().In(s.location).Truncate(time.Millisecond)

	imageIDs := make(map[string]string, len(defaultImages))
	if s.images != nil {
		ids := make([]string, len(defaultImages))
		steps := make([]func(context.Context) error, len(defaultImages))
		for i, img := range defaultImages {
			steps[i] = func(ctx context.Context) error {
				stored, err := s.images.Upsert(ctx, ProjectImage{
					ID:        primitive.NewObjectID().Hex(),
					URL:       img.URL,
					Alt:       img.Alt,
					CreatedAt: base,
				})
				if err != nil {
					return db.Unavailable("insert project image", err)
				}
				ids[i] = stored.ID
				return nil
			}
		}
		if err := run(ctx, parallel, steps); err != nil {
			return err
		}
		for i, img := range defaultImages {
			imageIDs[img.URL] = ids[i]
		}
	}

	steps := make([]func(context.Context) error, len(defaultProjects))
	for i, f := range DefaultProjects() {
		item := newProject(f, base.Add(-time.Duration(i)*time.Millisecond))
		if id, ok := imageIDs[f.ImageURL]; ok {
			item.ImageID = id
		}
		steps[i] = func(ctx context.Context) error {
			return db.Unavailable("insert project", s.projects.Create(ctx, item))
		}
	}
	return run(ctx, parallel, steps)
}

// run executes steps in order, or all at once when parallel is set, and
// returns the first error.
func run(ctx context.Context, parallel bool, steps []func(context.Context) error) error {
	if !parallel {
		for _, step := range steps {
			if err := step(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, step := range steps {
		g.Go(func() error { return step(gctx) })
	}
	return g.Wait()
}
