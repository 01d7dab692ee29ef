package partition

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Table is an ordered, fixed set of partitions.
//
// The partition order is set at construction and never changes; it is both
// the scan order for allocation and the display order for snapshots. A single
// mutex guards the whole table, so Allocate and Free are atomic with respect
// to each other.
type Table struct {
	mu     sync.Mutex
	parts  []Partition
	policy Policy
	unique bool
	log    logrus.FieldLogger
}

var _ Allocator = (*Table)(nil)

// New builds a table from layout. A partition with ID 0 gets the smallest
// unused ID above every ID before it in layout, skipping IDs claimed
// explicitly anywhere in layout, so a layout of all zero IDs is numbered 1..n.
func New(layout []Spec, opts ...Option) (*Table, error) {
	if len(layout) == 0 {
		return nil, ErrEmptyLayout
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if int(o.policy) >= len(policyNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, uint8(o.policy))
	}

	// Explicit IDs first, so auto IDs can step around them.
	taken := make(map[int]struct{}, len(layout))
	for i, s := range layout {
		if s.Capacity <= 0 {
			return nil, fmt.Errorf("%w: entry %d has capacity %d", ErrBadCapacity, i, s.Capacity)
		}
		if s.ID < 0 {
			return nil, fmt.Errorf("%w: entry %d has id %d", ErrDuplicateID, i, s.ID)
		}
		if s.ID == 0 {
			continue
		}
		if _, dup := taken[s.ID]; dup {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateID, s.ID)
		}
		taken[s.ID] = struct{}{}
	}

	parts := make([]Partition, len(layout))
	maxID := 0
	for i, s := range layout {
		id := s.ID
		if id == 0 {
			id = maxID + 1
			for {
				if _, used := taken[id]; !used {
					break
				}
				id++
			}
			taken[id] = struct{}{}
		}
		maxID = max(maxID, id)
		parts[i] = Partition{ID: id, Capacity: s.Capacity}
	}

	return &Table{
		parts:  parts,
		policy: o.policy,
		unique: o.uniqueNames,
		log:    o.log.WithField("type", "partition/table"),
	}, nil
}

// NewSequential builds a table whose partitions are numbered 1..n in the
// order of capacities.
func NewSequential(capacities []int, opts ...Option) (*Table, error) {
	layout := make([]Spec, len(capacities))
	for i, c := range capacities {
		layout[i] = Spec{Capacity: c}
	}
	return New(layout, opts...)
}

// Restore rebuilds a table from a snapshot taken with Snapshot. Occupants are
// checked against their partition; a view whose occupant does not fit, or
// whose recorded fragmentation disagrees with capacity minus size, is
// rejected with ErrCorruptSnapshot.
func Restore(views []View, opts ...Option) (*Table, error) {
	layout := make([]Spec, len(views))
	for i, v := range views {
		if v.ID == 0 {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrCorruptSnapshot, i)
		}
		layout[i] = Spec{ID: v.ID, Capacity: v.Capacity}
	}

	t, err := New(layout, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	resident := make(map[string]struct{})
	for i, v := range views {
		occ := v.Occupant
		if occ == nil {
			continue
		}
		switch {
		case occ.Name == "":
			return nil, fmt.Errorf("%w: partition %d occupant has no name", ErrCorruptSnapshot, v.ID)
		case occ.Size <= 0:
			return nil, fmt.Errorf("%w: partition %d occupant size %d", ErrCorruptSnapshot, v.ID, occ.Size)
		case occ.Size > v.Capacity:
			return nil, fmt.Errorf("%w: partition %d occupant size %d exceeds capacity %d",
				ErrCorruptSnapshot, v.ID, occ.Size, v.Capacity)
		case occ.Fragmentation != v.Capacity-occ.Size:
			return nil, fmt.Errorf("%w: partition %d fragmentation %d, want %d",
				ErrCorruptSnapshot, v.ID, occ.Fragmentation, v.Capacity-occ.Size)
		}
		if t.unique {
			if _, dup := resident[occ.Name]; dup {
				return nil, fmt.Errorf("%w: %q resident twice", ErrCorruptSnapshot, occ.Name)
			}
			resident[occ.Name] = struct{}{}
		}
		t.parts[i].Occupant = &ProcessAllocation{Name: occ.Name, Size: occ.Size}
	}
	return t, nil
}

// Allocate places name in the partition chosen by the table's policy.
//
// A size of zero or less fails with ErrBadSize and an empty name with
// ErrBadName. When no free partition is large enough the table is left
// untouched and a *NoFitError is returned.
func (t *Table) Allocate(name string, size int) (Allocation, error) {
	if size <= 0 {
		return Allocation{}, fmt.Errorf("%w: %q requested %d", ErrBadSize, name, size)
	}
	if name == "" {
		return Allocation{}, ErrBadName
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unique && t.indexOf(name) >= 0 {
		return Allocation{}, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	i := t.policy.choose(t.parts, size)
	if i < 0 {
		t.log.WithFields(logrus.Fields{
			"process": name,
			"size":    size,
		}).Debug("no partition fits process")
		return Allocation{}, &NoFitError{Name: name, Size: size}
	}

	part := &t.parts[i]
	part.Occupant = &ProcessAllocation{Name: name, Size: size}
	res := Allocation{PartitionID: part.ID, Fragmentation: part.Fragmentation()}

	t.log.WithFields(logrus.Fields{
		"process":       name,
		"size":          size,
		"partition":     part.ID,
		"fragmentation": res.Fragmentation,
	}).Debug("process allocated")
	return res, nil
}

// Free releases the first partition, in table order, whose occupant is name.
// At most one partition is released per call.
func (t *Table) Free(name string) (Release, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(name)
	if i < 0 {
		t.log.WithField("process", name).Debug("process not resident")
		return Release{}, &NotFoundError{Name: name}
	}

	part := &t.parts[i]
	part.Occupant = nil

	t.log.WithFields(logrus.Fields{
		"process":   name,
		"partition": part.ID,
	}).Debug("process released")
	return Release{PartitionID: part.ID}, nil
}

// Snapshot returns a copy of every partition in table order.
func (t *Table) Snapshot() []View {
	t.mu.Lock()
	defer t.mu.Unlock()

	views := make([]View, len(t.parts))
	for i := range t.parts {
		views[i] = t.parts[i].view()
	}
	return views
}

// TotalInternalFragmentation sums the unused capacity of occupied partitions.
// Free partitions contribute nothing.
func (t *Table) TotalInternalFragmentation() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for i := range t.parts {
		total += t.parts[i].Fragmentation()
	}
	return total
}

// Stats returns occupancy and capacity totals.
func (t *Table) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{Partitions: len(t.parts)}
	for i := range t.parts {
		part := &t.parts[i]
		s.TotalCapacity += part.Capacity
		if part.Free() {
			s.Free++
			s.FreeCapacity += part.Capacity
			s.LargestFree = max(s.LargestFree, part.Capacity)
			continue
		}
		s.Occupied++
		s.UsedCapacity += part.Occupant.Size
		s.InternalFragmentation += part.Fragmentation()
	}
	return s
}

// Lookup returns the first partition, in table order, holding name.
func (t *Table) Lookup(name string) (View, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(name)
	if i < 0 {
		return View{}, false
	}
	return t.parts[i].view(), true
}

// Layout returns the table's partitions as constructed, without occupants.
func (t *Table) Layout() []Spec {
	layout := make([]Spec, len(t.parts))
	for i := range t.parts {
		// ID and Capacity are immutable, so no lock is needed.
		layout[i] = Spec{ID: t.parts[i].ID, Capacity: t.parts[i].Capacity}
	}
	return layout
}

// Len returns the number of partitions.
func (t *Table) Len() int { return len(t.parts) }

// Policy returns the selection policy the table was built with.
func (t *Table) Policy() Policy { return t.policy }

// UniqueNames reports whether the table rejects duplicate resident names.
func (t *Table) UniqueNames() bool { return t.unique }

// indexOf returns the index of the first partition holding name, or -1.
// Caller must hold t.mu.
func (t *Table) indexOf(name string) int {
	for i := range t.parts {
		if occ := t.parts[i].Occupant; occ != nil && occ.Name == name {
			return i
		}
	}
	return -1
}

func (p *Partition) view() View {
	v := View{ID: p.ID, Capacity: p.Capacity}
	if p.Occupant != nil {
		v.Occupant = &OccupantView{
			Name:          p.Occupant.Name,
			Size:          p.Occupant.Size,
			Fragmentation: p.Fragmentation(),
		}
	}
	return v
}
