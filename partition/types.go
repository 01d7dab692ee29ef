package partition

// ProcessAllocation is a named process resident in a partition.
type ProcessAllocation struct {
	Name string
	Size int
}

// Partition is a fixed-capacity memory block holding at most one process.
type Partition struct {
	ID       int
	Capacity int
	Occupant *ProcessAllocation // nil when free
}

// Free reports whether the partition has no occupant.
func (p *Partition) Free() bool { return p.Occupant == nil }

// Fragmentation returns the capacity left unused by the occupant, or 0 when free.
func (p *Partition) Fragmentation() int {
	if p.Occupant == nil {
		return 0
	}
	return p.Capacity - p.Occupant.Size
}

// Spec describes one partition of a table layout.
// An ID of 0 asks New to assign the next sequential ID.
type Spec struct {
	ID       int `json:"id"`
	Capacity int `json:"capacity"`
}

// View is a read-only copy of one partition, as returned by Snapshot.
type View struct {
	ID       int           `json:"id"`
	Capacity int           `json:"capacity"`
	Occupant *OccupantView `json:"occupant"`
}

// OccupantView describes the process held by a partition.
type OccupantView struct {
	Name          string `json:"name"`
	Size          int    `json:"size"`
	Fragmentation int    `json:"fragmentation"`
}

// Free reports whether the viewed partition had no occupant.
func (v View) Free() bool { return v.Occupant == nil }

// Allocation is the outcome of a successful Allocate.
type Allocation struct {
	PartitionID   int `json:"partition_id"`
	Fragmentation int `json:"fragmentation"`
}

// Release is the outcome of a successful Free.
type Release struct {
	PartitionID int `json:"partition_id"`
}

// Stats summarizes a table at one instant.
type Stats struct {
	Partitions            int `json:"partitions"`
	Occupied              int `json:"occupied"`
	Free                  int `json:"free"`
	TotalCapacity         int `json:"total_capacity"`
	UsedCapacity          int `json:"used_capacity"`
	FreeCapacity          int `json:"free_capacity"`
	InternalFragmentation int `json:"internal_fragmentation"`
	LargestFree           int `json:"largest_free"`
}

// Allocator defines the operations of a fixed-partition allocator.
//
// Implementations:
//   - Table: mutex-guarded table with a configurable selection policy
//
// Consumers such as the script executor accept this interface rather than
// the concrete table.
type Allocator interface {
	// Allocate places a process in a free partition chosen by the policy.
	// Returns a *NoFitError when nothing fits; the table is then unchanged.
	Allocate(name string, size int) (Allocation, error)

	// Free releases the first partition (in table order) holding name.
	// Returns a *NotFoundError when the name is not resident.
	Free(name string) (Release, error)

	// Snapshot returns a copy of every partition in table order.
	Snapshot() []View

	// TotalInternalFragmentation sums capacity minus size over occupied partitions.
	TotalInternalFragmentation() int
}
