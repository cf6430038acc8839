package repositories

import (
	"context"

	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
)

// ErrNotFound is returned when no course matches the requested id
var ErrNotFound = apperrors.ErrCourseNotFound

// CourseRepository is the Course Store. Every method is a single store call
// (Create also allocates the id) and is safe for concurrent use.
type CourseRepository interface {
	// Prepare readies the store at startup (indexes, schema, id sequence).
	Prepare(ctx context.Context) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	FindAll(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (models.Course, error)
	// Create stores the fields under a newly allocated id and returns it.
	Create(ctx context.Context, fields models.Course) (int64, error)
	// Update replaces only the supplied fields and returns the result.
	Update(ctx context.Context, id int64, patch models.Course) (models.Course, error)
	Delete(ctx context.Context, id int64) error
}
