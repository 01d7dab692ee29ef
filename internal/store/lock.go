package store

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
)

// lockPollInterval is how often a contended lock is retried.
const lockPollInterval = 10 * time.Millisecond

// lock acquires the sidecar lock file, retrying until ctx is done. The
// returned func releases the lock and closes the file.
func (s *Store) lock(ctx context.Context, exclusive bool) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open lock file")
	}

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := tryLock(f, exclusive)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "lock state file")
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, errors.Wrap(ctx.Err(), "wait for state file lock")
		case <-ticker.C:
		}
	}

	return func() {
		if err := unlock(f); err != nil {
			s.log.WithError(err).Warn("failed to release state file lock")
		}
		_ = f.Close()
	}, nil
}
