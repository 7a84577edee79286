package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/nikbrunner/rl/internal/model"
)

// jsonFile is the on-disk layout of a JSONStorage file.
type jsonFile struct {
	Version int          `json:"version"`
	Items   []model.Item `json:"items"`
}

// JSONStorage implements Store using a single JSON file.
// The committed snapshot is kept in memory and rewritten on every Update.
type JSONStorage struct {
	path  string
	mu    sync.RWMutex
	items []model.Item
}

// NewJSONStorage loads the store at path.
// A missing file is treated as an empty store.
func NewJSONStorage(path string) (*JSONStorage, error) {
	s := &JSONStorage{path: path, items: []model.Item{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, &model.StorageError{Op: "open", Err: errors.Wrap(err, "could not read store file")}
	}

	var f jsonFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &model.StorageError{Op: "open", Err: errors.Wrap(err, "could not decode store file")}
	}
	if f.Items != nil {
		s.items = f.Items
	}

	return s, nil
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Close is a no-op; every Update is already on disk.
func (s *JSONStorage) Close() error {
	return nil
}

// View runs fn against the committed snapshot.
func (s *JSONStorage) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&memTx{items: s.items, readOnly: true})
}

// Update runs fn against a private copy and swaps it in once it is on disk.
func (s *JSONStorage) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := make([]model.Item, len(s.items))
	copy(working, s.items)

	tx := &memTx{items: working}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}

	if err := s.save(tx.items); err != nil {
		return &model.StorageError{Op: "commit", Err: err}
	}
	s.items = tx.items
	return nil
}

// save writes items to a temp file and renames it over the store file.
func (s *JSONStorage) save(items []model.Item) error {
	if err := ensureDir(s.path); err != nil {
		return errors.Wrap(err, "could not create store directory")
	}

	data, err := json.MarshalIndent(jsonFile{Version: 1, Items: items}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode store")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".items-*.json")
	if err != nil {
		return errors.Wrap(err, "could not create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "could not write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "could not close temp file")
	}

	return errors.Wrap(os.Rename(tmp.Name(), s.path), "could not replace store file")
}

// memTx implements Tx over an in-memory slice.
type memTx struct {
	items    []model.Item
	readOnly bool
	dirty    bool
}

var errReadOnly = errors.New("write in read-only transaction")

func (t *memTx) writable(op string) error {
	if t.readOnly {
		return &model.StorageError{Op: op, Err: errReadOnly}
	}
	t.dirty = true
	return nil
}

func (t *memTx) index(id string) int {
	for i := range t.items {
		if t.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *memTx) Insert(item model.Item) error {
	if err := checkState(item.State); err != nil {
		return err
	}
	if t.index(item.ID) >= 0 {
		return &model.StorageError{Op: "insert", Err: errors.Errorf("duplicate id %s", item.ID)}
	}
	if err := t.writable("insert"); err != nil {
		return err
	}
	t.items = append(t.items, item)
	return nil
}

func (t *memTx) Delete(id string) (bool, error) {
	i := t.index(id)
	if i < 0 {
		return false, nil
	}
	if err := t.writable("delete"); err != nil {
		return false, err
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	return true, nil
}

func (t *memTx) Get(id string) (model.Item, error) {
	i := t.index(id)
	if i < 0 {
		return model.Item{}, model.ErrNotFound
	}
	return t.items[i], nil
}

func (t *memTx) Count(state model.State) (int, error) {
	n := 0
	for _, item := range t.items {
		if item.State == state {
			n++
		}
	}
	return n, nil
}

func (t *memTx) List(state model.State) ([]model.Item, error) {
	items := []model.Item{}
	for _, item := range t.items {
		if item.State == state {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StateEnteredAt.Equal(items[j].StateEnteredAt) {
			return items[i].StateEnteredAt.After(items[j].StateEnteredAt)
		}
		return items[i].CapturedAt.After(items[j].CapturedAt)
	})
	return items, nil
}

func (t *memTx) Transition(id string, from, to model.State, mutate func(*model.Item)) (model.Item, error) {
	if err := checkState(to); err != nil {
		return model.Item{}, err
	}

	i := t.index(id)
	if i < 0 || t.items[i].State != from {
		return model.Item{}, model.ErrNotFound
	}
	if err := t.writable("transition"); err != nil {
		return model.Item{}, err
	}

	next := transitioned(t.items[i], to, mutate)
	t.items[i] = next
	return next, nil
}
