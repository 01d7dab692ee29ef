package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/partkit/partition"
)

func classicLayout() []partition.Spec {
	return []partition.Spec{{Capacity: 100}, {Capacity: 150}, {Capacity: 200}, {Capacity: 250}, {Capacity: 300}}
}

// newTestStore initializes a state file in a temp dir.
func newTestStore(t *testing.T, opts InitOptions) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "state.json"), nil)
	_, err := s.Init(context.Background(), classicLayout(), opts)
	require.NoError(t, err)
	return s
}

// TestInit_WritesFreshState tests the initial document.
func TestInit_WritesFreshState(t *testing.T) {
	s := newTestStore(t, InitOptions{Policy: partition.BestFit, UniqueNames: true})

	st, err := s.ReadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Version, st.Version)
	assert.Equal(t, partition.BestFit, st.Policy)
	assert.True(t, st.UniqueNames)
	require.Len(t, st.Partitions, 5)
	for i, v := range st.Partitions {
		assert.Equal(t, i+1, v.ID)
		assert.Nil(t, v.Occupant)
	}

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"policy": "best-fit"`)
	assert.Contains(t, string(raw), `"occupant": null`)
}

// TestInit_Exists tests that Init refuses to clobber without Force.
func TestInit_Exists(t *testing.T) {
	s := newTestStore(t, InitOptions{})
	ctx := context.Background()

	_, err := s.Update(ctx, func(tbl *partition.Table) error {
		_, err := tbl.Allocate("A", 90)
		return err
	})
	require.NoError(t, err)

	_, err = s.Init(ctx, classicLayout(), InitOptions{})
	assert.ErrorIs(t, err, ErrExists)

	tbl, err := s.Init(ctx, []partition.Spec{{Capacity: 10}}, InitOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, tbl.Snapshot(), loaded.Snapshot())
}

// TestInit_BadLayout tests that layout errors surface from Init.
func TestInit_BadLayout(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "state.json"), nil)
	_, err := s.Init(context.Background(), nil, InitOptions{})
	assert.ErrorIs(t, err, partition.ErrEmptyLayout)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

// TestUpdate_PersistsAcrossLoads tests that allocations survive a reload.
func TestUpdate_PersistsAcrossLoads(t *testing.T) {
	s := newTestStore(t, InitOptions{})
	ctx := context.Background()

	for _, p := range []struct {
		name string
		size int
	}{{"A", 90}, {"B", 140}, {"C", 180}} {
		_, err := s.Update(ctx, func(tbl *partition.Table) error {
			_, err := tbl.Allocate(p.name, p.size)
			return err
		})
		require.NoError(t, err)
	}

	_, err := s.Update(ctx, func(tbl *partition.Table) error {
		_, err := tbl.Free("B")
		return err
	})
	require.NoError(t, err)

	var got partition.Allocation
	_, err = s.Update(ctx, func(tbl *partition.Table) error {
		var err error
		got, err = tbl.Allocate("D", 100)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, partition.Allocation{PartitionID: 2, Fragmentation: 50}, got)

	tbl, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, tbl.TotalInternalFragmentation())
}

// TestUpdate_ErrorDiscardsChanges tests that a failing fn leaves the file untouched.
func TestUpdate_ErrorDiscardsChanges(t *testing.T) {
	s := newTestStore(t, InitOptions{})
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := s.Update(ctx, func(tbl *partition.Table) error {
		_, err := tbl.Allocate("A", 90)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tbl, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, tbl.Stats().Occupied)
}

// TestUpdate_KeepsOptions tests that policy and unique names are restored on load.
func TestUpdate_KeepsOptions(t *testing.T) {
	s := newTestStore(t, InitOptions{Policy: partition.WorstFit, UniqueNames: true})
	ctx := context.Background()

	tbl, err := s.Update(ctx, func(tbl *partition.Table) error {
		a, err := tbl.Allocate("A", 10)
		assert.Equal(t, 5, a.PartitionID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, partition.WorstFit, tbl.Policy())

	_, err = s.Update(ctx, func(tbl *partition.Table) error {
		_, err := tbl.Allocate("A", 10)
		return err
	})
	assert.ErrorIs(t, err, partition.ErrDuplicateName)
}

// TestLoad_Missing tests loading before Init.
func TestLoad_Missing(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "none.json"), nil)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotExist)
}

// TestLoad_Corrupt tests detection of damaged state files.
func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", "{", ErrCorrupt},
		{"wrong version", `{"version":2,"partitions":[{"id":1,"capacity":10,"occupant":null}]}`, ErrVersion},
		{"no partitions", `{"version":1,"partitions":[]}`, ErrCorrupt},
		{
			"oversized occupant",
			`{"version":1,"partitions":[{"id":1,"capacity":10,"occupant":{"name":"a","size":11,"fragmentation":-1}}]}`,
			ErrCorrupt,
		},
		{
			"stale fragmentation",
			`{"version":1,"partitions":[{"id":1,"capacity":10,"occupant":{"name":"a","size":4,"fragmentation":1}}]}`,
			ErrCorrupt,
		},
		{"bad policy", `{"version":1,"policy":"next-fit","partitions":[{"id":1,"capacity":10}]}`, ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "state.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := New(path, nil).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestUpdate_LeavesOnlyStateFiles tests that the temp file is renamed away.
func TestUpdate_LeavesOnlyStateFiles(t *testing.T) {
	s := newTestStore(t, InitOptions{})
	_, err := s.Update(context.Background(), func(tbl *partition.Table) error {
		_, err := tbl.Allocate("A", 90)
		return err
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"state.json", "state.json.lock"}, names)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "A"`)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}
