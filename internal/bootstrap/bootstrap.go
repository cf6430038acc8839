package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Rifat402/courses-app/docs"
	appControllers "github.com/Rifat402/courses-app/internal/app/controllers"
	appRepos "github.com/Rifat402/courses-app/internal/app/repositories"
	appRoutes "github.com/Rifat402/courses-app/internal/app/routes"
	appServices "github.com/Rifat402/courses-app/internal/app/services"
	"github.com/Rifat402/courses-app/internal/config"
	"github.com/Rifat402/courses-app/internal/db"
	appMiddleware "github.com/Rifat402/courses-app/internal/middleware"
	"github.com/Rifat402/courses-app/internal/pkg/logger"
	"github.com/Rifat402/courses-app/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService    appServices.CourseService
	CourseController *appControllers.CourseController
	HealthController *appControllers.HealthController
	Logger           zerolog.Logger
}

// Store is the selected course repository plus whatever releases its
// connection on shutdown
type Store struct {
	Driver     string
	Repository appRepos.CourseRepository
	Close      func(ctx context.Context) error
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().
		Str("logLevel", string(logLevel)).
		Str("logFormat", cfg.Logging.Format).
		Strs("envOverrides", cfg.EnvOverrides).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the configured store, prepares it and seeds default
// courses when enabled.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	store, err := openStore(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lgr.Info().Str("driver", store.Driver).Msg("Preparing course store...")
	if err := store.Repository.Prepare(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to prepare course store")
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("failed to prepare course store: %w", err)
	}
	lgr.Info().Msg("Course store ready.")

	if cfg.Seed.Enabled {
		created, err := seed.CreateDefaultData(ctx, store.Repository, cfg.Seed.Courses, lgr)
		if err != nil {
			// Seeding is best effort
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
		lgr.Info().Int("created", created).Msg("Default course seeding finished")
	}

	return store, nil
}

func openStore(cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		provider := db.NewMongoProvider(cfg)
		return &Store{
			Driver:     config.DriverMongo,
			Repository: appRepos.NewMongoCourseRepository(provider, cfg.Database.Collection),
			Close:      provider.Close,
		}, nil

	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")
		return &Store{
			Driver:     config.DriverPostgres,
			Repository: appRepos.NewPostgresCourseRepository(database.Pool),
			Close: func(context.Context) error {
				database.Close()
				return nil
			},
		}, nil

	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory course store, data will not survive a restart")
		return &Store{
			Driver:     config.DriverMemory,
			Repository: appRepos.NewMemoryCourseRepository(),
			Close:      func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// BuildDependencies initializes the service and controllers.
func BuildDependencies(cfg *config.Config, repo appRepos.CourseRepository, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.CourseService = appServices.NewCourseService(repo, cfg.OperationTimeout(), lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HealthController = appControllers.NewHealthController(deps.CourseService)

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(appMiddleware.Recovery(), appMiddleware.RequestLogger(lgr))

	docs.SwaggerInfo.BasePath = cfg.Server.BasePath
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router, cfg.Server.BasePath, deps.CourseController, deps.HealthController)

	return router
}
