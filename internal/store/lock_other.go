//go:build !unix && !windows

package store

import "os"

// tryLock always succeeds on platforms without advisory file locks.
func tryLock(_ *os.File, _ bool) (bool, error) { return true, nil }

func unlock(_ *os.File) error { return nil }
