package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFit indicates that no free partition is large enough for the request.
	ErrNoFit = errors.New("partition: no free partition large enough")

	// ErrNotFound indicates that no occupied partition holds the named process.
	ErrNotFound = errors.New("partition: process not found")

	// ErrBadSize indicates a requested size that is zero or negative.
	ErrBadSize = errors.New("partition: size must be positive")

	// ErrBadName indicates an empty process name.
	ErrBadName = errors.New("partition: process name must not be empty")

	// ErrDuplicateName indicates that a name is already resident and the table
	// was built with WithUniqueNames.
	ErrDuplicateName = errors.New("partition: process name already allocated")

	// ErrEmptyLayout indicates a table constructed without partitions.
	ErrEmptyLayout = errors.New("partition: layout has no partitions")

	// ErrBadCapacity indicates a partition capacity that is zero or negative.
	ErrBadCapacity = errors.New("partition: capacity must be positive")

	// ErrDuplicateID indicates that two partitions share an ID, or an ID is negative.
	ErrDuplicateID = errors.New("partition: duplicate or invalid partition id")

	// ErrCorruptSnapshot indicates a snapshot that cannot be restored into a table.
	ErrCorruptSnapshot = errors.New("partition: corrupt snapshot")

	// ErrUnknownPolicy indicates an unrecognized selection policy name.
	ErrUnknownPolicy = errors.New("partition: unknown policy")
)

// NoFitError is returned by Allocate when no partition can take the process.
// It matches ErrNoFit under errors.Is.
type NoFitError struct {
	Name string
	Size int
}

func (e *NoFitError) Error() string {
	return fmt.Sprintf("partition: cannot allocate %q (%d units): no free partition large enough", e.Name, e.Size)
}

// Is reports whether target is ErrNoFit.
func (e *NoFitError) Is(target error) bool { return target == ErrNoFit }

// NotFoundError is returned by Free when the name is not resident.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("partition: process %q not found", e.Name)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
