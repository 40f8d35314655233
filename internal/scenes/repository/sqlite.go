package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"roomplanner/internal/scenes/models"
)

var ErrNotFound = errors.New("scene not found")

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// WithClock replaces the timestamp source.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// Init applies the schema migration.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns every scene, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]models.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, version, created_at, updated_at
        FROM scenes
        ORDER BY updated_at DESC, created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	out := []models.Summary{}
	for rows.Next() {
		var (
			s                models.Summary
			created, updated int64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		s.CreatedAt = time.UnixMilli(created).UTC()
		s.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Scene, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, version, data, created_at, updated_at
        FROM scenes
        WHERE id = ?
    `, id)

	var (
		s                models.Scene
		data             string
		created, updated int64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Version, &data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get scene: %w", err)
	}
	s.Data = []byte(data)
	s.CreatedAt = time.UnixMilli(created).UTC()
	s.UpdatedAt = time.UnixMilli(updated).UTC()
	return &s, nil
}

// Create inserts s, assigning its id and both timestamps.
func (r *Repository) Create(ctx context.Context, s *models.Scene) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO scenes (id, name, version, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, s.ID, s.Name, s.Version, string(s.Data), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert scene: %w", err)
	}
	return nil
}

// Update replaces name, version and data of an existing scene and bumps
// UpdatedAt. CreatedAt is reloaded from the store.
func (r *Repository) Update(ctx context.Context, s *models.Scene) error {
	now := r.now().UTC().Truncate(time.Millisecond)

	res, err := r.db.ExecContext(ctx, `
        UPDATE scenes
        SET name = ?, version = ?, data = ?, updated_at = ?
        WHERE id = ?
    `, s.Name, s.Version, string(s.Data), now.UnixMilli(), s.ID)
	if err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	stored, err := r.Get(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
