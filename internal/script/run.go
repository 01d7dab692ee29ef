package script

import (
	"context"

	"github.com/pkg/errors"

	"github.com/joshuapare/partkit/partition"
)

// Result is the outcome of one operation. Exactly one of the payload fields
// is set for a successful operation; Err is set for NoFit and NotFound.
type Result struct {
	Op         Op                    `json:"op"`
	Allocation *partition.Allocation `json:"allocation,omitempty"`
	Release    *partition.Release    `json:"release,omitempty"`
	Snapshot   []partition.View      `json:"snapshot,omitempty"`
	Total      *int                  `json:"total,omitempty"`
	Err        error                 `json:"-"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Run executes ops against a in order. NoFit and NotFound outcomes are
// recorded in the results and execution continues; any other error stops
// the run and is returned along with the results gathered so far.
func Run(ctx context.Context, a partition.Allocator, ops []Op) ([]Result, error) {
	results := make([]Result, 0, len(ops))
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := Result{Op: op}
		switch op.Kind {
		case KindAlloc:
			alloc, err := a.Allocate(op.Name, op.Size)
			switch {
			case err == nil:
				res.Allocation = &alloc
			case errors.Is(err, partition.ErrNoFit):
				res.Err = err
			default:
				return results, errors.Wrapf(err, "line %d", op.Line)
			}
		case KindFree:
			rel, err := a.Free(op.Name)
			switch {
			case err == nil:
				res.Release = &rel
			case errors.Is(err, partition.ErrNotFound):
				res.Err = err
			default:
				return results, errors.Wrapf(err, "line %d", op.Line)
			}
		case KindShow:
			res.Snapshot = a.Snapshot()
		case KindFrag:
			total := a.TotalInternalFragmentation()
			res.Total = &total
		default:
			return results, errors.Errorf("line %d: unknown operation %s", op.Line, op.Kind)
		}
		results = append(results, res)
	}
	return results, nil
}
