package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/arena/internal/adapters/codec"
	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/config"
	"github.com/okian/arena/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCollection() model.Collection {
	c := model.DefaultCollection()
	apples := &c.Arenas[0]
	apples.Items = append(apples.Items, model.Item{ID: "A3", Name: "Fuji", Rating: model.DefaultRating()})
	apples.NextItemID = 4
	apples.Outcomes = []model.Outcome{
		{ID: "o-1", At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Item1: "A1", Item2: "A2", Winner: "A1"},
		{ID: "o-2", At: time.Date(2026, 1, 2, 3, 5, 0, 0, time.UTC), Item1: "A3", Item2: "A1", Winner: "A3"},
	}
	apples.Items[0].Elo = 1516
	c.Arenas = append(c.Arenas, model.Arena{Key: "coffee", Name: "Coffee", NextItemID: 1})
	return normalize(c)
}

// normalize turns nil slices into empty ones so backends compare equal.
func normalize(c model.Collection) model.Collection {
	for i := range c.Arenas {
		if c.Arenas[i].Items == nil {
			c.Arenas[i].Items = []model.Item{}
		}
		if c.Arenas[i].Outcomes == nil {
			c.Arenas[i].Outcomes = []model.Outcome{}
		}
	}
	return c
}

func exerciseStore(t *testing.T, s repository.Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Arenas)

	want := sampleCollection()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, normalize(got))

	// A second save replaces, it does not merge.
	smaller := model.Collection{Arenas: []model.Arena{want.Arenas[1]}}
	require.NoError(t, s.Save(ctx, smaller))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Arenas, 1)
	assert.Equal(t, "coffee", got.Arenas[0].Key)
}

func TestMemoryStore(t *testing.T) {
	s := repository.NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 2, s.Saves())
	assert.NoError(t, s.Close())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := repository.NewMemoryStore()
	c := sampleCollection()
	require.NoError(t, s.Save(ctx, c))

	c.Arenas[0].Items[0].Name = "mutated"
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Royal Gala", got.Arenas[0].Items[0].Name)
}

func TestFileStore(t *testing.T) {
	for _, name := range []string{"arenas.json", "arenas.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			s, err := repository.NewFileStore(path)
			require.NoError(t, err)
			exerciseStore(t, s)
			assert.Equal(t, path, s.Path())

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary files must not be left behind")
		})
	}
}

func TestFileStoreFormatOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	_, err := repository.NewFileStore(path)
	require.ErrorIs(t, err, codec.ErrUnknownFormat)

	s, err := repository.NewFileStore(path, repository.WithFormat(codec.FormatYAML), repository.WithFileMode(0o600))
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), sampleCollection()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "next_item_id: 4")
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arenas.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := repository.NewFileStore(path)
	require.NoError(t, err)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrLoad)
}

func TestFileStoreCancelledSave(t *testing.T) {
	s, err := repository.NewFileStore(filepath.Join(t.TempDir(), "arenas.json"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Save(ctx, sampleCollection()), repository.ErrSave)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "arenas.db")
	s, err := repository.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	// Data survives reopening.
	s, err = repository.NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Arenas, 1)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("ARENA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("ARENA_TEST_DATABASE_URL not set, skipping postgres test")
	}
	ctx := context.Background()
	s, err := repository.NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Save(ctx, model.Collection{}))
	exerciseStore(t, s)
	require.NoError(t, s.Save(ctx, model.Collection{}))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	cfg := config.New(ctx)

	cfg.StoreDriver = config.DriverMemory
	s, err := repository.Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryStore{}, s)

	cfg.StoreDriver = config.DriverFile
	cfg.StorePath = filepath.Join(t.TempDir(), "arenas.yml")
	s, err = repository.Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &repository.FileStore{}, s)

	cfg.StoreDriver = "etcd"
	_, err = repository.Open(ctx, cfg)
	assert.ErrorIs(t, err, repository.ErrUnknownDriver)
}
