package projects

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// memRepo mimics the Mongo repository: newest-first listing, ErrNoDocuments
// on a missing update target.
type memRepo struct {
	mu         sync.Mutex
	items      map[string]Project
	err        error
	deleteAlls int
	// blockDelete, when set, is waited on inside DeleteAll.
	blockDelete chan struct{}
	enteredDel  chan struct{}
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[string]Project)}
}

func (r *memRepo) Create(ctx context.Context, item Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items[item.ID] = item
	return nil
}

func (r *memRepo) Update(ctx context.Context, id string, set bson.M) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return Project{}, r.err
	}
	item, ok := r.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	applySet(&item, set)
	r.items[id] = item
	return item, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.items[id]
	delete(r.items, id)
	return ok, nil
}

func (r *memRepo) DeleteAll(ctx context.Context) (int64, error) {
	if r.enteredDel != nil {
		r.enteredDel <- struct{}{}
	}
	if r.blockDelete != nil {
		<-r.blockDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.deleteAlls++
	n := int64(len(r.items))
	r.items = make(map[string]Project)
	return n, nil
}

func (r *memRepo) List(ctx context.Context) ([]Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	items := make([]Project, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *memRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.items)), nil
}

func applySet(p *Project, set bson.M) {
	for key, value := range set {
		switch key {
		case "title":
			p.Title = value.(string)
		case "description":
			p.Description = value.(string)
		case "category":
			p.Category = value.(string)
		case "techStack":
			p.TechStack = value.([]string)
		case "link":
			p.Link = value.(string)
		case "featured":
			p.Featured = value.(bool)
		case "imageUrl":
			p.ImageURL = value.(string)
		case "imageId":
			p.ImageID = value.(string)
		case "milestones":
			p.Milestones = value.([]Milestone)
		case "updatedAt":
			p.UpdatedAt = value.(time.Time)
		}
	}
}

type memImages struct {
	mu    sync.Mutex
	byURL map[string]ProjectImage
}

func newMemImages() *memImages {
	return &memImages{byURL: make(map[string]ProjectImage)}
}

func (r *memImages) Upsert(ctx context.Context, img ProjectImage) (ProjectImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.byURL[img.URL]; ok {
		return stored, nil
	}
	r.byURL[img.URL] = img
	return img, nil
}

func (r *memImages) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.byURL))
	r.byURL = make(map[string]ProjectImage)
	return n, nil
}

func (r *memImages) byID() map[string]ProjectImage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]ProjectImage, len(r.byURL))
	for _, img := range r.byURL {
		out[img.ID] = img
	}
	return out
}

// recordingTx reports itself atomic and counts calls.
type recordingTx struct {
	calls int
}

func (t *recordingTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func (t *recordingTx) Atomic() bool { return true }
