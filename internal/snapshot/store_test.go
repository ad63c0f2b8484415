package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/beerslab/internal/particles"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testState(name string) *State {
	return &State{
		Name:           name,
		Time:           3.5,
		Solute:         "copperSulfate",
		Volume:         0.75,
		SoluteMoles:    1.2,
		DispensingRate: 0.1,
		Shaker: []particles.State{
			{X: 330, Y: 180, VX: -70.7, VY: 70.7, AY: 150, Orientation: 1.2},
		},
		Precipitate: []particles.State{
			{X: 100, Y: 545},
			{X: 200, Y: 545, Orientation: 3},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	want := testState("mid-shake")
	require.NoError(t, st.Save(ctx, want))
	assert.False(t, want.SavedAt.IsZero(), "save stamps SavedAt")

	got, err := st.Load(ctx, "mid-shake")
	require.NoError(t, err)
	assert.Equal(t, want.Solute, got.Solute)
	assert.Equal(t, want.Time, got.Time)
	assert.Equal(t, want.Volume, got.Volume)
	assert.Equal(t, want.SoluteMoles, got.SoluteMoles)
	assert.Equal(t, want.DispensingRate, got.DispensingRate)
	assert.Equal(t, want.Shaker, got.Shaker)
	assert.Equal(t, want.Precipitate, got.Precipitate)
	assert.True(t, want.SavedAt.Equal(got.SavedAt))
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.Save(ctx, testState("a")))
	updated := testState("a")
	updated.SoluteMoles = 0.3
	updated.Precipitate = nil
	require.NoError(t, st.Save(ctx, updated))

	got, err := st.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0.3, got.SoluteMoles)
	assert.Empty(t, got.Precipitate)

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].Precipitate)
}

func TestStoreSaveRequiresName(t *testing.T) {
	st := openTestStore(t)
	assert.Error(t, st.Save(context.Background(), testState("")))
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	older := testState("older")
	older.SavedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testState("newer")
	newer.SavedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.Save(ctx, older))
	require.NoError(t, st.Save(ctx, newer))

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Name)
	assert.Equal(t, "older", list[1].Name)
	assert.Equal(t, "copperSulfate", list[0].Solute)
	assert.Equal(t, 1, list[0].Shaker)
	assert.Equal(t, 2, list[0].Precipitate)
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(ctx, "missing"), ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.Save(ctx, testState("gone")))
	require.NoError(t, st.Delete(ctx, "gone"))

	_, err := st.Load(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}
