// Package partition provides a fixed-partition memory allocator.
//
// # Overview
//
// A Table holds an ordered set of partitions whose number and capacities are
// fixed when the table is built. Each partition holds at most one named
// process. Allocation never splits, merges or compacts partitions: a process
// either fits in one free partition or the request fails.
//
// # Allocator Interface
//
// The core abstraction is the Allocator interface:
//
//   - Allocate(name, size): place a process in a free partition
//   - Free(name): release the partition holding a process
//   - Snapshot(): copy every partition in table order
//   - TotalInternalFragmentation(): sum of unused capacity in occupied partitions
//
// # Policies
//
// The table scans partitions in construction order. Which eligible partition
// (free and large enough) wins depends on the Policy:
//
//	FirstFit  the first eligible partition (default)
//	BestFit   the smallest eligible partition
//	WorstFit  the largest eligible partition
//
// Ties always go to the partition that comes first in table order.
//
// # Usage Example
//
//	t, err := partition.NewSequential([]int{100, 150, 200, 250, 300})
//	if err != nil {
//	    return err
//	}
//
//	a, err := t.Allocate("A", 90) // partition 1, fragmentation 10
//	if errors.Is(err, partition.ErrNoFit) {
//	    // nothing large enough is free; the table is unchanged
//	}
//
//	_, err = t.Free("A")
//	if errors.Is(err, partition.ErrNotFound) {
//	    // "A" was not resident
//	}
//
// # Internal Fragmentation
//
// An occupied partition wastes capacity minus occupant size. Free partitions
// are not counted: they are available, not wasted.
//
// # Names
//
// Names are opaque. By default the same name may be allocated more than once,
// and Free releases the lowest-ordered match only. Build the table with
// WithUniqueNames to reject a name that is already resident.
//
// # Thread Safety
//
// Table methods are safe for concurrent use. One mutex guards the entire
// table, so two concurrent Allocate calls can never claim the same partition.
//
// # Related Packages
//
//   - github.com/joshuapare/partkit/partition/verify: invariant checks over snapshots
//   - github.com/joshuapare/partkit/internal/store: file-backed table state
package partition
