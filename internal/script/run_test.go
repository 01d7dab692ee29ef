package script

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/partkit/partition"
)

const classic = `
alloc A 90
alloc B 140
alloc C 180
free B
alloc D 100
alloc E 350
free Z
show
frag
`

// TestRun_Classic tests a full script against the five-partition layout.
func TestRun_Classic(t *testing.T) {
	tbl, err := partition.NewSequential([]int{100, 150, 200, 250, 300})
	require.NoError(t, err)
	ops, err := ParseString(classic)
	require.NoError(t, err)

	results, err := Run(context.Background(), tbl, ops)
	require.NoError(t, err)
	require.Len(t, results, len(ops))

	assert.Equal(t, &partition.Allocation{PartitionID: 1, Fragmentation: 10}, results[0].Allocation)
	assert.Equal(t, &partition.Allocation{PartitionID: 2, Fragmentation: 10}, results[1].Allocation)
	assert.Equal(t, &partition.Allocation{PartitionID: 3, Fragmentation: 20}, results[2].Allocation)
	assert.Equal(t, &partition.Release{PartitionID: 2}, results[3].Release)
	assert.Equal(t, &partition.Allocation{PartitionID: 2, Fragmentation: 50}, results[4].Allocation)

	assert.False(t, results[5].OK())
	assert.ErrorIs(t, results[5].Err, partition.ErrNoFit)
	assert.False(t, results[6].OK())
	assert.ErrorIs(t, results[6].Err, partition.ErrNotFound)

	require.Len(t, results[7].Snapshot, 5)
	assert.Equal(t, "D", results[7].Snapshot[1].Occupant.Name)

	require.NotNil(t, results[8].Total)
	assert.Equal(t, 80, *results[8].Total)
}

// TestRun_StopsOnValidationError tests that non-outcome errors abort the run.
func TestRun_StopsOnValidationError(t *testing.T) {
	tbl, err := partition.NewSequential([]int{100}, partition.WithUniqueNames())
	require.NoError(t, err)
	ops, err := ParseString("alloc A 10\nalloc A 10\nfrag")
	require.NoError(t, err)

	results, err := Run(context.Background(), tbl, ops)
	require.Error(t, err)
	assert.ErrorIs(t, err, partition.ErrDuplicateName)
	assert.Contains(t, err.Error(), "line 2")
	assert.Len(t, results, 1)
}

// TestRun_Cancelled tests that a cancelled context stops before the next step.
func TestRun_Cancelled(t *testing.T) {
	tbl, err := partition.NewSequential([]int{100})
	require.NoError(t, err)
	ops, err := ParseString("alloc A 10")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Run(ctx, tbl, ops)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.True(t, tbl.Snapshot()[0].Free())
}

// TestRun_FreesExactName tests that a name containing '#' releases that
// process and not the one named by its prefix.
func TestRun_FreesExactName(t *testing.T) {
	tbl, err := partition.NewSequential([]int{100, 150})
	require.NoError(t, err)
	ops, err := ParseString("alloc job 10\nalloc job#1 20\nfree job#1")
	require.NoError(t, err)

	results, err := Run(context.Background(), tbl, ops)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, &partition.Release{PartitionID: 2}, results[2].Release)

	snap := tbl.Snapshot()
	require.NotNil(t, snap[0].Occupant)
	assert.Equal(t, "job", snap[0].Occupant.Name)
	assert.Nil(t, snap[1].Occupant)
}
