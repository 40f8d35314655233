package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomplanner/internal/scenes/models"
)

const migrations = "../../../migrations/001_init_scenes.sql"

type tick struct{ t time.Time }

func (c *tick) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "scenes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &tick{t: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	repo := New(db).WithClock(clock.now)
	require.NoError(t, repo.Init(context.Background(), migrations))
	return repo
}

func scene(name string) *models.Scene {
	return &models.Scene{
		Name:    name,
		Version: 2,
		Data:    json.RawMessage(`{"version":2,"objects":[]}`),
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	s := scene("Kitchen")
	require.NoError(t, repo.Create(ctx, s))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Name, got.Name)
	assert.Equal(t, 2, got.Version)
	assert.JSONEq(t, string(s.Data), string(got.Data))
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestUpdatedFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a, b := scene("a"), scene("b")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{list[0].ID, list[1].ID})

	a.Name = "a2"
	require.NoError(t, repo.Update(ctx, a))
	assert.True(t, a.UpdatedAt.After(a.CreatedAt))

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "a2", list[0].Name)
}

func TestListEmpty(t *testing.T) {
	list, err := newRepo(t).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdateAndDeleteMissing(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Update(ctx, &models.Scene{ID: "nope", Data: json.RawMessage(`{}`)}), ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), ErrNotFound)

	s := scene("x")
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err := repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPing(t *testing.T) {
	assert.NoError(t, newRepo(t).PingContext(context.Background()))
}

func TestInitMissingMigration(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "scenes.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, New(db).Init(context.Background(), "nope.sql"))
}
