package toml

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XueJourney/AgentRound/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "rosters.toml"))
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)

	roster := domain.Roster{
		Name:      "panel",
		Models:    []string{"gpt-4o", "claude-3"},
		UpdatedAt: time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(context.Background(), roster))

	got, err := repo.Get(context.Background(), "panel")
	require.NoError(t, err)
	assert.Equal(t, roster, got)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Roster{roster}, all)
}

func TestRepositorySaveUpserts(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.Roster{Name: "panel", Models: []string{"old"}}))
	require.NoError(t, repo.Save(ctx, domain.Roster{Name: "panel", Models: []string{"new-a", "new-b"}}))
	require.NoError(t, repo.Save(ctx, domain.Roster{Name: "other", Models: []string{"m"}}))

	got, err := repo.Get(ctx, "panel")
	require.NoError(t, err)
	assert.Equal(t, []string{"new-a", "new-b"}, got.Models)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryGetMissingRoster(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrRosterNotFound)
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestRepositoryListEmptyWhenFileAbsent(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepositoryDelete(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.Roster{Name: "panel", Models: []string{"m"}}))
	require.NoError(t, repo.Delete(ctx, "panel"))

	_, err := repo.Get(ctx, "panel")
	require.ErrorIs(t, err, domain.ErrRosterNotFound)

	err = repo.Delete(ctx, "panel")
	require.ErrorIs(t, err, domain.ErrRosterNotFound)
}

func TestRepositoryRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rosters.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	repo, err := NewRepository(path)
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported rosters schema version")
}

func TestRepositoryRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rosters.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o600))

	repo, err := NewRepository(path)
	require.NoError(t, err)

	_, err = repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode rosters file")
}

func TestRepositoryWritesAtomically(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := NewRepository(filepath.Join(dir, "rosters.toml"))
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), domain.Roster{Name: "panel", Models: []string{"m"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))

	info, err := os.Stat(filepath.Join(dir, "rosters.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryRejectsEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewRepository("")
	require.Error(t, err)
}
