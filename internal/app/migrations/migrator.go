package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Rifat402/courses-app/internal/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

// Migrator applies the embedded SQL files in name order, recording each
// version in schema_migrations so it only runs once.
type Migrator struct {
	db    *pgxpool.Pool
	files fs.FS
	dir   string
	log   zerolog.Logger
}

// NewMigrator creates a migrator over the embedded migrations
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db:    db,
		files: embedded,
		dir:   "sql",
		log:   logger.Component("migrator"),
	}
}

// Migration is one SQL file
type Migration struct {
	Version string
	Name    string
	SQL     string
}

// Load reads and orders the SQL files in dir. The version is the file name
// prefix before the first underscore ("001_init.sql" => "001").
func Load(files fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		version := strings.SplitN(name, "_", 2)[0]
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %s: %s and %s", version, prev, name)
		}
		seen[version] = name

		content, err := fs.ReadFile(files, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(content)})
	}
	return migrations, nil
}

// Migrate applies every migration not yet recorded
func (m *Migrator) Migrate(ctx context.Context) error {
	migrations, err := Load(m.files, m.dir)
	if err != nil {
		return err
	}

	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	for _, migration := range migrations {
		if err := m.apply(ctx, migration); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	var applied bool
	err := m.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`,
		migration.Version).Scan(&applied)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}
	if applied {
		m.log.Debug().Str("migration", migration.Name).Msg("Migration already applied, skipping")
		return nil
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, migration.SQL); err != nil {
		return fmt.Errorf("error applying migration %s: %w", migration.Name, err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		migration.Version, time.Now()); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Name, err)
	}

	m.log.Info().Str("migration", migration.Name).Msg("Migration applied")
	return nil
}
