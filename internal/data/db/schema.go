package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// ErrSchemaTooNew is returned when the database was written by a newer build
// whose schema this binary does not know.
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

// step is one forward-only schema change. Its version is recorded in the
// database header through PRAGMA user_version.
type step struct {
	version int
	name    string
	sql     string
}

// schemaSteps reads migrations/NNNN_name.sql. Versions must start at 1 and
// have no gaps so user_version alone identifies the applied set.
func schemaSteps() ([]step, error) {
	paths, err := fs.Glob(schemaFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}

	steps := make([]step, 0, len(paths))
	for _, p := range paths {
		version, name, err := splitStepName(path.Base(p))
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(schemaFS, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		steps = append(steps, step{version: version, name: name, sql: string(body)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].version < steps[j].version })
	for i, s := range steps {
		if s.version != i+1 {
			return nil, fmt.Errorf("schema step %q: expected version %d, got %d", s.name, i+1, s.version)
		}
	}
	return steps, nil
}

// splitStepName parses "0002_notifications_settings.sql".
func splitStepName(file string) (int, string, error) {
	base, ok := strings.CutSuffix(file, ".sql")
	if !ok {
		return 0, "", fmt.Errorf("schema file %q: missing .sql suffix", file)
	}
	num, name, ok := strings.Cut(base, "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("schema file %q: want NNNN_name.sql", file)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return 0, "", fmt.Errorf("schema file %q: bad version %q", file, num)
	}
	return version, name, nil
}

// LatestSchemaVersion is the version a freshly opened database ends up at.
func LatestSchemaVersion() int {
	steps, err := schemaSteps()
	if err != nil || len(steps) == 0 {
		return 0
	}
	return steps[len(steps)-1].version
}

func userVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// upgrade brings the schema to the latest version. Each step and its version
// bump commit together, so an interrupted upgrade resumes at the failed step.
func upgrade(ctx context.Context, conn *sql.DB) error {
	steps, err := schemaSteps()
	if err != nil {
		return err
	}

	current, err := userVersion(ctx, conn)
	if err != nil {
		return err
	}
	if latest := len(steps); current > latest {
		return fmt.Errorf("%w: have %d, know %d", ErrSchemaTooNew, current, latest)
	}

	for _, s := range steps[current:] {
		log.Debug().Int("version", s.version).Str("name", s.name).Msg("upgrading schema")
		if err := applyStep(ctx, conn, s); err != nil {
			return fmt.Errorf("schema step %04d_%s: %w", s.version, s.name, err)
		}
	}
	return nil
}

func applyStep(ctx context.Context, conn *sql.DB, s step) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.sql); err != nil {
		return err
	}
	// PRAGMA arguments cannot be bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", s.version)); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion reports the schema version recorded in the database header.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return userVersion(ctx, db.conn)
}
