package firestore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/ports"
)

// Runs only against the Firestore emulator.
func newEmulatorRepo(t *testing.T) *TournamentRepository {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, "dice-arena-test", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewTournamentRepo(client, "tournaments-"+uuid.NewString())
}

func TestTournamentRepository_FindByID(t *testing.T) {
	repo := newEmulatorRepo(t)
	ctx := context.Background()

	_, err := repo.client.Collection(repo.collection).Doc("t1").Set(ctx, map[string]any{
		"name":   "Spring Cup",
		"status": "active",
		"id":     "stale",
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "t1", got.ID())
	require.Equal(t, "Spring Cup", got["name"])

	_, err = repo.FindByID(ctx, "missing")
	require.True(t, errors.Is(err, ports.ErrTournamentNotFound), "got %v", err)
}

func TestTournamentRepository_ListOrdersAndFilters(t *testing.T) {
	repo := newEmulatorRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	docs := map[string]map[string]any{
		"a": {"status": "active", "createdAt": base},
		"b": {"status": "completed", "createdAt": base.Add(time.Hour)},
		"c": {"status": "active", "createdAt": base.Add(2 * time.Hour)},
		"d": {"status": "active", "createdAt": base.Add(3 * time.Hour)},
	}
	for id, fields := range docs {
		_, err := repo.client.Collection(repo.collection).Doc(id).Set(ctx, fields)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, domain.TournamentListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "d", all[0].ID())

	active, err := repo.List(ctx, domain.TournamentListFilter{Status: "active", Limit: 2})
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "d", active[0].ID())
	require.Equal(t, "c", active[1].ID())
}
