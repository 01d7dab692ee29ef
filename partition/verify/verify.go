// Package verify provides validation functions for partition table snapshots.
// These helpers are used in tests and by the state store to ensure table
// invariants are maintained.
package verify

import (
	"fmt"

	"github.com/joshuapare/partkit/partition"
)

// ValidationError describes the first invariant a snapshot violates.
type ValidationError struct {
	Type        string
	Message     string
	PartitionID int
	Details     map[string]interface{}
}

func (e *ValidationError) Error() string {
	if e.PartitionID > 0 {
		return fmt.Sprintf("%s at partition %d: %s", e.Type, e.PartitionID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all snapshot invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(views []partition.View) error {
	if err := IDs(views); err != nil {
		return err
	}
	if err := Capacity(views); err != nil {
		return err
	}
	if err := Fragmentation(views); err != nil {
		return err
	}
	return nil
}

// IDs validates that there is at least one partition and that IDs are positive and unique.
func IDs(views []partition.View) error {
	if len(views) == 0 {
		return &ValidationError{
			Type:    "IDs",
			Message: "no partitions",
		}
	}

	seen := make(map[int]int, len(views))
	for i, v := range views {
		if v.ID <= 0 {
			return &ValidationError{
				Type:    "IDs",
				Message: fmt.Sprintf("entry %d has non-positive id %d", i, v.ID),
			}
		}
		if first, dup := seen[v.ID]; dup {
			return &ValidationError{
				Type:        "IDs",
				Message:     fmt.Sprintf("id repeated at entries %d and %d", first, i),
				PartitionID: v.ID,
			}
		}
		seen[v.ID] = i
	}
	return nil
}

// Capacity validates that every partition has positive capacity and every
// occupant has a positive size no larger than its partition.
func Capacity(views []partition.View) error {
	for _, v := range views {
		if v.Capacity <= 0 {
			return &ValidationError{
				Type:        "Capacity",
				Message:     fmt.Sprintf("non-positive capacity %d", v.Capacity),
				PartitionID: v.ID,
			}
		}
		occ := v.Occupant
		if occ == nil {
			continue
		}
		if occ.Size <= 0 {
			return &ValidationError{
				Type:        "Capacity",
				Message:     fmt.Sprintf("occupant %q has non-positive size %d", occ.Name, occ.Size),
				PartitionID: v.ID,
			}
		}
		if occ.Size > v.Capacity {
			return &ValidationError{
				Type:        "Capacity",
				Message:     fmt.Sprintf("occupant %q size %d exceeds capacity %d", occ.Name, occ.Size, v.Capacity),
				PartitionID: v.ID,
				Details: map[string]interface{}{
					"size":     occ.Size,
					"capacity": v.Capacity,
				},
			}
		}
	}
	return nil
}

// Fragmentation validates that each occupant's recorded fragmentation equals
// capacity minus size.
func Fragmentation(views []partition.View) error {
	for _, v := range views {
		occ := v.Occupant
		if occ == nil {
			continue
		}
		if want := v.Capacity - occ.Size; occ.Fragmentation != want {
			return &ValidationError{
				Type:        "Fragmentation",
				Message:     fmt.Sprintf("recorded %d, expected %d", occ.Fragmentation, want),
				PartitionID: v.ID,
				Details: map[string]interface{}{
					"recorded": occ.Fragmentation,
					"expected": want,
				},
			}
		}
	}
	return nil
}

// Total validates that total equals the summed fragmentation of occupied partitions.
func Total(views []partition.View, total int) error {
	sum := 0
	for _, v := range views {
		if v.Occupant != nil {
			sum += v.Capacity - v.Occupant.Size
		}
	}
	if sum != total {
		return &ValidationError{
			Type:    "Total",
			Message: fmt.Sprintf("total fragmentation %d, sum over occupants %d", total, sum),
			Details: map[string]interface{}{
				"total": total,
				"sum":   sum,
			},
		}
	}
	return nil
}

// Table validates a live table: its snapshot invariants and its reported total.
// The snapshot and total are read separately, so callers must not mutate the
// table concurrently.
func Table(t partition.Allocator) error {
	views := t.Snapshot()
	if err := AllInvariants(views); err != nil {
		return err
	}
	return Total(views, t.TotalInternalFragmentation())
}
