package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Rifat402/courses-app/internal/app/migrations"
	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/pkg/apperrors"
	"github.com/Rifat402/courses-app/internal/pkg/dberrors"
	"github.com/Rifat402/courses-app/internal/pkg/logger"
)

// PostgresCourseRepository keeps each course's fields in a JSONB column next
// to a BIGSERIAL id, so the database allocates ids atomically.
type PostgresCourseRepository struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	log zerolog.Logger
}

// NewPostgresCourseRepository creates a new PostgresCourseRepository
func NewPostgresCourseRepository(db *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: logger.Component("course_repository").With().Str("driver", "postgres").Logger(),
	}
}

// Prepare applies pending schema migrations
func (r *PostgresCourseRepository) Prepare(ctx context.Context) error {
	return migrations.NewMigrator(r.db).Migrate(ctx)
}

// Ping checks the pool
func (r *PostgresCourseRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return wrapStoreError("ping", err)
	}
	return nil
}

// wrapStoreError adds context to a failed statement. An unreachable server is
// tagged with ErrStoreUnavailable.
func wrapStoreError(msg string, err error) error {
	switch {
	case dberrors.IsConnectionError(err):
		return fmt.Errorf("%s: %w: %w", msg, apperrors.ErrStoreUnavailable, err)
	case dberrors.IsUndefinedTable(err):
		return fmt.Errorf("%s: courses table missing, were migrations applied?: %w", msg, err)
	case dberrors.IsDuplicateConstraintError(err, "courses_pkey"):
		return fmt.Errorf("%s: id sequence is behind existing rows: %w", msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// scanCourse turns an (id, data) row into a course document
func scanCourse(row pgx.Row) (models.Course, error) {
	var (
		id   int64
		data []byte
	)
	if err := row.Scan(&id, &data); err != nil {
		return nil, err
	}

	course := models.Course{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &course); err != nil {
			return nil, fmt.Errorf("error decoding course data: %w", err)
		}
	}
	return course.WithID(id), nil
}

func encodeFields(fields models.Course) (string, error) {
	b, err := json.Marshal(fields.Fields())
	if err != nil {
		return "", fmt.Errorf("error encoding course data: %w", err)
	}
	return string(b), nil
}

// FindAll retrieves all courses ordered by id
func (r *PostgresCourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	sql, args, err := r.sb.Select("id", "data").
		From(models.CourseCollection).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		r.log.Error().Err(err).Msg("Error building get all courses SQL")
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Error executing get all courses query")
		return nil, wrapStoreError("error querying courses", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			r.log.Error().Err(err).Msg("Error scanning course row during get all")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		r.log.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// FindByID retrieves a course by id
func (r *PostgresCourseRepository) FindByID(ctx context.Context, id int64) (models.Course, error) {
	sql, args, err := r.sb.Select("id", "data").
		From(models.CourseCollection).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		r.log.Error().Err(err).Msg("Error building get course by ID SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, wrapStoreError("error getting course by ID", err)
	}

	return course, nil
}

// Create inserts the fields and returns the serial id
func (r *PostgresCourseRepository) Create(ctx context.Context, fields models.Course) (int64, error) {
	data, err := encodeFields(fields)
	if err != nil {
		return 0, err
	}

	sql, args, err := r.sb.Insert(models.CourseCollection).
		Columns("data").
		Values(squirrel.Expr("?::jsonb", data)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		r.log.Error().Err(err).Msg("Error building create course SQL")
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		r.log.Error().Err(err).Msg("Error executing create course query")
		return 0, wrapStoreError("error creating course", err)
	}

	return id, nil
}

// Update merges the supplied fields into the stored JSONB document
func (r *PostgresCourseRepository) Update(ctx context.Context, id int64, patch models.Course) (models.Course, error) {
	data, err := encodeFields(patch)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.sb.Update(models.CourseCollection).
		Set("data", squirrel.Expr("data || ?::jsonb", data)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, data").
		ToSql()
	if err != nil {
		r.log.Error().Err(err).Msg("Error building update course SQL")
		return nil, fmt.Errorf("failed to build update course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error executing update course query")
		return nil, wrapStoreError("error updating course", err)
	}

	return course, nil
}

// Delete deletes a course by id
func (r *PostgresCourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete(models.CourseCollection).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		r.log.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return wrapStoreError("error deleting course", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
