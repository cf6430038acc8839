package repositories

import (
	"context"
	"sync"

	"github.com/Rifat402/courses-app/internal/app/models"
)

// MemoryCourseRepository keeps courses in process memory. Data is lost on
// restart. Documents are deep copied on the way in and out.
type MemoryCourseRepository struct {
	mu    sync.RWMutex
	items map[int64]models.Course
	order []int64
	seq   int64
}

// NewMemoryCourseRepository creates an empty store
func NewMemoryCourseRepository() *MemoryCourseRepository {
	return &MemoryCourseRepository{
		items: make(map[int64]models.Course),
	}
}

func (r *MemoryCourseRepository) Prepare(ctx context.Context) error { return nil }

func (r *MemoryCourseRepository) Ping(ctx context.Context) error { return nil }

// FindAll returns courses in insertion order
func (r *MemoryCourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]models.Course, 0, len(r.order))
	for _, id := range r.order {
		courses = append(courses, r.items[id].Clone())
	}
	return courses, nil
}

func (r *MemoryCourseRepository) FindByID(ctx context.Context, id int64) (models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return course.Clone(), nil
}

func (r *MemoryCourseRepository) Create(ctx context.Context, fields models.Course) (int64, error) {
	stored := fields.Fields().Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	id := r.seq
	r.items[id] = stored.WithID(id)
	r.order = append(r.order, id)
	return id, nil
}

func (r *MemoryCourseRepository) Update(ctx context.Context, id int64, patch models.Course) (models.Course, error) {
	patch = patch.Fields().Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	course, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	for k, v := range patch {
		course[k] = v
	}
	return course.Clone(), nil
}

func (r *MemoryCourseRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
