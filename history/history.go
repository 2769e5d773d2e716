// Package history archives benchmark runs so later runs can be compared
// against earlier ones. Runs are JSON documents keyed by their timestamp in
// one of several embedded or SQL stores.
package history

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"sortbench/sweep"
)

const (
	BackendBolt     = "bbolt"
	BackendBadger   = "badger"
	BackendPebble   = "pebble"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var ErrUnknownBackend = errors.New("unknown history backend")

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendBolt, BackendBadger, BackendPebble, BackendSQLite, BackendPostgres}
}

// KnownBackend reports whether name selects a backend.
func KnownBackend(name string) bool {
	return slices.Contains(Backends(), name)
}

// Run is one archived invocation.
type Run struct {
	Timestamp time.Time      `json:"timestamp"`
	Seed      uint64         `json:"seed"`
	Config    sweep.Config   `json:"config"`
	Results   []sweep.Result `json:"results"`
}

// Store persists runs.
type Store interface {
	Save(run Run) error
	// LoadAll returns every run, oldest first.
	LoadAll() ([]Run, error)
	// LoadLatest returns the newest run, or nil when the store is empty.
	LoadLatest() (*Run, error)
	Close() error
}

// Config selects and locates a store. Path is a directory for the embedded
// backends and a connection string for postgres.
type Config struct {
	Backend string
	Path    string
}

// Open returns the store described by cfg.
func Open(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, errors.Newf("history path is required for backend %q", cfg.Backend)
	}

	var (
		b   backend
		err error
	)
	switch cfg.Backend {
	case BackendBolt:
		b, err = openBolt(cfg.Path)
	case BackendBadger:
		b, err = openBadger(cfg.Path)
	case BackendPebble:
		b, err = openPebble(cfg.Path)
	case BackendSQLite:
		b, err = openSQLite(cfg.Path)
	case BackendPostgres:
		b, err = openPostgres(cfg.Path)
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s history", cfg.Backend)
	}
	return &store{b: b}, nil
}

// backend is the storage primitive each database provides. Runs are ordered
// by ts; values handed to scan callbacks are only valid during the call.
type backend interface {
	put(ts int64, value []byte) error
	scan(fn func(value []byte) error) error
	last() ([]byte, error)
	close() error
}

type store struct {
	b backend
}

func (s *store) Save(run Run) error {
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now()
	}
	value, err := json.Marshal(run)
	if err != nil {
		return errors.Wrap(err, "encode run")
	}
	return errors.Wrap(s.b.put(run.Timestamp.UnixNano(), value), "save run")
}

func (s *store) LoadAll() ([]Run, error) {
	runs := []Run{}
	err := s.b.scan(func(value []byte) error {
		var run Run
		if err := json.Unmarshal(value, &run); err != nil {
			return errors.Wrap(err, "decode run")
		}
		runs = append(runs, run)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *store) LoadLatest() (*Run, error) {
	value, err := s.b.last()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	var run Run
	if err := json.Unmarshal(value, &run); err != nil {
		return nil, errors.Wrap(err, "decode run")
	}
	return &run, nil
}

func (s *store) Close() error {
	return s.b.close()
}
