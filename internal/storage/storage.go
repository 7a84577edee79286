package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/rl/internal/model"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Store is the transactional record store holding every item.
//
// Update runs fn in a single write transaction: it commits only when fn
// returns nil and never partially applies. Writers are serialized per
// Store. View runs fn against a consistent committed snapshot.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx is the set of record operations available inside a transaction.
type Tx interface {
	Insert(item model.Item) error
	// Delete removes the item and reports whether it existed.
	Delete(id string) (bool, error)
	Get(id string) (model.Item, error)
	Count(state model.State) (int, error)
	// List returns the items in state, most recently entered first.
	List(state model.State) ([]model.Item, error)
	// Transition moves the item from one state to another. mutate may only
	// change StateEnteredAt; identity, URL, title and CapturedAt are kept.
	Transition(id string, from, to model.State, mutate func(*model.Item)) (model.Item, error)
}

// Open opens the configured backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStorage(path)
	case BackendJSON:
		return NewJSONStorage(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Insert stores a single item.
func Insert(ctx context.Context, s Store, item model.Item) error {
	return s.Update(ctx, func(tx Tx) error {
		return tx.Insert(item)
	})
}

// Delete removes an item. Deleting a missing item is not an error.
func Delete(ctx context.Context, s Store, id string) error {
	return s.Update(ctx, func(tx Tx) error {
		_, err := tx.Delete(id)
		return err
	})
}

// FetchAll lists the items in state.
func FetchAll(ctx context.Context, s Store, state model.State) ([]model.Item, error) {
	var items []model.Item
	err := s.View(ctx, func(tx Tx) error {
		var err error
		items, err = tx.List(state)
		return err
	})
	return items, err
}

// Count returns the number of items in state.
func Count(ctx context.Context, s Store, state model.State) (int, error) {
	var n int
	err := s.View(ctx, func(tx Tx) error {
		var err error
		n, err = tx.Count(state)
		return err
	})
	return n, err
}

// FetchByID returns the item with the given ID in any state.
func FetchByID(ctx context.Context, s Store, id string) (model.Item, error) {
	var item model.Item
	err := s.View(ctx, func(tx Tx) error {
		var err error
		item, err = tx.Get(id)
		return err
	})
	return item, err
}

// TransitionAtomic moves an item between states in its own transaction.
func TransitionAtomic(ctx context.Context, s Store, id string, from, to model.State, mutate func(*model.Item)) (model.Item, error) {
	var item model.Item
	err := s.Update(ctx, func(tx Tx) error {
		var err error
		item, err = tx.Transition(id, from, to, mutate)
		return err
	})
	return item, err
}

// transitioned builds the record that replaces cur in state to.
func transitioned(cur model.Item, to model.State, mutate func(*model.Item)) model.Item {
	next := cur
	if mutate != nil {
		mutate(&next)
	}
	next.ID = cur.ID
	next.URL = cur.URL
	next.Title = cur.Title
	next.CapturedAt = cur.CapturedAt
	next.State = to
	return next
}

func checkState(s model.State) error {
	if !s.Valid() {
		return fmt.Errorf("%w: unknown state %q", model.ErrInvalidTransition, s)
	}
	return nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
