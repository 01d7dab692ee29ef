package verify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/partkit/partition"
)

func validViews() []partition.View {
	return []partition.View{
		{ID: 1, Capacity: 100, Occupant: &partition.OccupantView{Name: "A", Size: 90, Fragmentation: 10}},
		{ID: 2, Capacity: 150},
		{ID: 3, Capacity: 200, Occupant: &partition.OccupantView{Name: "C", Size: 180, Fragmentation: 20}},
	}
}

// TestAllInvariants_Valid tests that a well-formed snapshot passes.
func TestAllInvariants_Valid(t *testing.T) {
	views := validViews()
	require.NoError(t, AllInvariants(views))
	require.NoError(t, Total(views, 30))
}

// TestIDs_Empty tests detection of a snapshot with no partitions.
func TestIDs_Empty(t *testing.T) {
	err := IDs(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no partitions")
}

// TestIDs_Duplicate tests detection of a repeated partition ID.
func TestIDs_Duplicate(t *testing.T) {
	views := validViews()
	views[2].ID = 1

	err := AllInvariants(views)
	require.Error(t, err)
	require.Contains(t, err.Error(), "IDs at partition 1")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "IDs", ve.Type)
}

// TestIDs_NonPositive tests detection of a zero ID.
func TestIDs_NonPositive(t *testing.T) {
	views := validViews()
	views[1].ID = 0

	err := IDs(views)
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-positive id")
}

// TestCapacity_Oversized tests detection of an occupant larger than its partition.
func TestCapacity_Oversized(t *testing.T) {
	views := validViews()
	views[0].Occupant = &partition.OccupantView{Name: "A", Size: 101, Fragmentation: -1}

	err := Capacity(views)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds capacity")

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, 1, ve.PartitionID)
	require.Equal(t, 101, ve.Details["size"])
}

// TestCapacity_ZeroSize tests detection of an empty occupant.
func TestCapacity_ZeroSize(t *testing.T) {
	views := validViews()
	views[2].Occupant.Size = 0

	err := Capacity(views)
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-positive size")
}

// TestCapacity_ZeroCapacity tests detection of a zero-capacity partition.
func TestCapacity_ZeroCapacity(t *testing.T) {
	views := validViews()
	views[1].Capacity = 0

	err := AllInvariants(views)
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-positive capacity")
}

// TestFragmentation_Mismatch tests detection of a stale fragmentation figure.
func TestFragmentation_Mismatch(t *testing.T) {
	views := validViews()
	views[2].Occupant.Fragmentation = 5

	err := Fragmentation(views)
	require.Error(t, err)
	require.Contains(t, err.Error(), "recorded 5, expected 20")
}

// TestTotal_Mismatch tests detection of a wrong total.
func TestTotal_Mismatch(t *testing.T) {
	err := Total(validViews(), 31)
	require.Error(t, err)
	require.Contains(t, err.Error(), "total fragmentation 31, sum over occupants 30")
}

// TestTable_Live tests validation of a live table.
func TestTable_Live(t *testing.T) {
	tbl, err := partition.NewSequential([]int{100, 150, 200})
	require.NoError(t, err)
	_, err = tbl.Allocate("A", 1)
	require.NoError(t, err)

	require.NoError(t, Table(tbl))
}
