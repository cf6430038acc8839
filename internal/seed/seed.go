package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	appModels "github.com/Rifat402/courses-app/internal/app/models"
	appRepos "github.com/Rifat402/courses-app/internal/app/repositories"
)

// CreateDefaultData inserts the given courses when the store holds none.
// Individual insert failures are collected and returned together.
func CreateDefaultData(ctx context.Context, repo appRepos.CourseRepository, defaults []map[string]interface{}, lgr zerolog.Logger) (int, error) {
	if len(defaults) == 0 {
		return 0, nil
	}

	existing, err := repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error checking existing courses: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("existing", len(existing)).Msg("Courses already present, skipping seed")
		return 0, nil
	}

	lgr.Info().Int("courses", len(defaults)).Msg("Creating default courses...")
	var finalErr error
	created := 0
	for i, fields := range defaults {
		id, err := repo.Create(ctx, appModels.Course(fields))
		if err != nil {
			lgr.Error().Err(err).Int("index", i).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Int64("courseID", id).Msg("Default course created")
		created++
	}

	return created, finalErr
}
