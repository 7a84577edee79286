// Package storagetest opens throwaway stores for tests of packages built on storage.
package storagetest

import (
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/rl/internal/storage"
)

// Backends opens one empty store per backend under t.TempDir.
func Backends(t *testing.T) map[string]storage.Store {
	t.Helper()
	return map[string]storage.Store{
		storage.BackendSQLite: Open(t, storage.BackendSQLite),
		storage.BackendJSON:   Open(t, storage.BackendJSON),
	}
}

// Open opens an empty store of the given backend and closes it on cleanup.
func Open(t *testing.T, backend string) storage.Store {
	t.Helper()
	s, err := storage.Open(backend, filepath.Join(t.TempDir(), "items."+backend))
	assert.NilError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// Clock is a manually advanced clock.
type Clock struct {
	T time.Time
}

// NewClock returns a clock fixed at t.
func NewClock(t time.Time) *Clock {
	return &Clock{T: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	return c.T
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.T = c.T.Add(d)
	return c.T
}
