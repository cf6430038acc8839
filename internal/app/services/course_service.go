package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/app/repositories"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (models.Course, error)
	CreateCourse(ctx context.Context, fields models.Course) (int64, error)
	UpdateCourse(ctx context.Context, id int64, patch models.Course) (models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	CheckHealth(ctx context.Context) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo repositories.CourseRepository
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewCourseService creates a new course service. A zero timeout leaves store
// calls bounded only by the caller's context.
func NewCourseService(courseRepo repositories.CourseRepository, timeout time.Duration, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		timeout:    timeout,
		logger:     logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseServiceImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ListCourses retrieves all courses
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]models.Course, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	courses, err := s.courseRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error retrieving courses")
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetCourse retrieves a course by id
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		s.logger.Error().Err(err).Int64("courseID", id).Msg("Error retrieving course")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// CreateCourse stores a new course and returns its assigned id. Any id or
// _id in the input is ignored.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, fields models.Course) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.courseRepo.Create(ctx, fields.Fields())
	if err != nil {
		s.logger.Error().Err(err).Msg("Error adding course")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	s.logger.Info().Int64("courseID", id).Msg("Course created")
	return id, nil
}

// UpdateCourse replaces the supplied fields of an existing course. id and _id
// are immutable and are dropped from the patch.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, patch models.Course) (models.Course, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	course, err := s.courseRepo.Update(ctx, id, patch.Fields())
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			s.logger.Warn().Int64("courseID", id).Msg("No course found to update")
			return nil, apperrors.ErrCourseNotFound
		}
		s.logger.Error().Err(err).Int64("courseID", id).Msg("Error updating course")
		return nil, fmt.Errorf("error updating course: %w", err)
	}
	return course, nil
}

// DeleteCourse deletes a course by id
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		s.logger.Error().Err(err).Int64("courseID", id).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}

	s.logger.Info().Int64("courseID", id).Msg("Course deleted")
	return nil
}

// CheckHealth pings the store
func (s *courseServiceImpl) CheckHealth(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.courseRepo.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Store ping failed")
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}
