// Package store keeps a partition table in a JSON state file so that separate
// processes can operate on the same table.
//
// Every read-modify-write cycle holds an exclusive advisory lock on a sidecar
// "<path>.lock" file, and the state file itself is replaced atomically via
// temp file + rename. Two processes allocating at the same time therefore
// cannot both claim the same partition.
package store

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/partkit/partition"
	"github.com/joshuapare/partkit/partition/verify"
)

// Version is the state file format version written by this package.
const Version = 1

var (
	// ErrExists indicates Init was asked to create a state file that already exists.
	ErrExists = errors.New("store: state file already exists")

	// ErrNotExist indicates the state file has not been initialized.
	ErrNotExist = errors.New("store: state file does not exist")

	// ErrCorrupt indicates a state file that cannot be decoded or violates table invariants.
	ErrCorrupt = errors.New("store: corrupt state file")

	// ErrVersion indicates a state file written by an unsupported format version.
	ErrVersion = errors.New("store: unsupported state file version")
)

// State is the on-disk document.
type State struct {
	Version     int              `json:"version"`
	Policy      partition.Policy `json:"policy"`
	UniqueNames bool             `json:"unique_names"`
	Partitions  []partition.View `json:"partitions"`
}

// InitOptions controls Init.
type InitOptions struct {
	Policy      partition.Policy
	UniqueNames bool

	// Force overwrites an existing state file.
	Force bool
}

// Store reads and writes one state file.
type Store struct {
	path string
	log  logrus.FieldLogger
}

// New returns a Store for the state file at path. A nil log discards output.
func New(path string, log logrus.FieldLogger) *Store {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Store{
		path: path,
		log:  log.WithField("type", "internal/store"),
	}
}

// Path returns the state file path.
func (s *Store) Path() string { return s.path }

// Init writes a fresh table with layout. It fails with ErrExists when the file
// is already present unless opts.Force is set.
func (s *Store) Init(ctx context.Context, layout []partition.Spec, opts InitOptions) (*partition.Table, error) {
	tbl, err := partition.New(layout, s.tableOptions(opts.Policy, opts.UniqueNames)...)
	if err != nil {
		return nil, errors.Wrap(err, "build table")
	}

	unlock, err := s.lock(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !opts.Force {
		if _, statErr := os.Stat(s.path); statErr == nil {
			return nil, errors.Wrap(ErrExists, s.path)
		} else if !os.IsNotExist(statErr) {
			return nil, errors.Wrap(statErr, "stat state file")
		}
	}

	if err := s.write(tbl); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"path":       s.path,
		"partitions": tbl.Len(),
		"policy":     tbl.Policy().String(),
	}).Info("state initialized")
	return tbl, nil
}

// Load reads the table under a shared lock.
func (s *Store) Load(ctx context.Context) (*partition.Table, error) {
	unlock, err := s.lock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.read()
}

// Update loads the table, passes it to fn and writes it back, all under an
// exclusive lock. If fn returns an error nothing is written and the error is
// returned unchanged.
func (s *Store) Update(ctx context.Context, fn func(*partition.Table) error) (*partition.Table, error) {
	unlock, err := s.lock(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tbl, err := s.read()
	if err != nil {
		return nil, err
	}
	if err := fn(tbl); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.write(tbl); err != nil {
		return nil, err
	}
	s.log.WithField("path", s.path).Debug("state updated")
	return tbl, nil
}

// ReadState decodes and validates the raw state document without building a table.
func (s *Store) ReadState(ctx context.Context) (*State, error) {
	unlock, err := s.lock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.decode()
}

func (s *Store) tableOptions(p partition.Policy, unique bool) []partition.Option {
	opts := []partition.Option{partition.WithPolicy(p), partition.WithLogger(s.log)}
	if unique {
		opts = append(opts, partition.WithUniqueNames())
	}
	return opts
}

func (s *Store) decode() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotExist, s.path)
		}
		return nil, errors.Wrap(err, "read state file")
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "decode %s: %v", s.path, err)
	}
	if st.Version != Version {
		return nil, errors.Wrapf(ErrVersion, "%s has version %d, want %d", s.path, st.Version, Version)
	}
	if err := verify.AllInvariants(st.Partitions); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", s.path, err)
	}
	return &st, nil
}

func (s *Store) read() (*partition.Table, error) {
	st, err := s.decode()
	if err != nil {
		return nil, err
	}
	tbl, err := partition.Restore(st.Partitions, s.tableOptions(st.Policy, st.UniqueNames)...)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s: %v", s.path, err)
	}
	return tbl, nil
}

// write replaces the state file with tbl. The document is encoded into a
// sibling temp file which is synced and renamed over the state file, so
// readers see either the old table or the new one.
func (s *Store) write(tbl *partition.Table) error {
	st := State{
		Version:     Version,
		Policy:      tbl.Policy(),
		UniqueNames: tbl.UniqueNames(),
		Partitions:  tbl.Snapshot(),
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp state file")
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return errors.Wrap(err, "encode state")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp state file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp state file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "replace state file")
	}
	renamed = true

	s.log.WithFields(logrus.Fields{
		"path":     s.path,
		"occupied": tbl.Stats().Occupied,
	}).Debug("state written")
	return nil
}
