// Package triage moves items between states and deletes them.
package triage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/storage"
)

// Engine applies state transitions. Moves into the Inbox go through the same
// admission check as new captures.
type Engine struct {
	store storage.Store
	inbox *inbox.Controller
	log   logrus.FieldLogger
}

// New returns an Engine. Timestamps come from the controller's clock.
func New(store storage.Store, ctrl *inbox.Controller, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{store: store, inbox: ctrl, log: log}
}

// Move transitions the item id from one state to another.
//
// Every pair of distinct states is allowed. Moving to the same state or to an
// unknown one fails with model.ErrInvalidTransition; an item that is not in
// from fails with model.ErrNotFound.
func (e *Engine) Move(ctx context.Context, id string, from, to model.State) (model.Item, error) {
	if err := validTransition(from, to); err != nil {
		return model.Item{}, err
	}

	now := e.inbox.Now()
	var moved model.Item
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		if to == model.StateInbox {
			// Only check when the source exists, so a missing item is
			// reported as such even with a full Inbox.
			cur, err := tx.Get(id)
			if err != nil {
				return err
			}
			if cur.State != from {
				return model.ErrNotFound
			}
			if err := e.inbox.Check(tx); err != nil {
				return err
			}
		}

		var err error
		moved, err = tx.Transition(id, from, to, func(it *model.Item) {
			it.StateEnteredAt = now
		})
		return err
	})
	if err != nil {
		if model.IsStorageError(err) {
			e.log.WithError(err).WithField("id", id).Error("move failed")
		}
		return model.Item{}, err
	}

	e.log.WithFields(logrus.Fields{
		"id":   id,
		"from": from,
		"to":   to,
	}).Info("item moved")
	return moved, nil
}

// Bookmark moves the item to Bookmark from wherever it is.
func (e *Engine) Bookmark(ctx context.Context, id string) (model.Item, error) {
	return e.MoveTo(ctx, id, model.StateBookmark)
}

// Archive moves the item to Archive from wherever it is.
func (e *Engine) Archive(ctx context.Context, id string) (model.Item, error) {
	return e.MoveTo(ctx, id, model.StateArchive)
}

// ReturnToInbox moves the item back into the Inbox, subject to capacity.
func (e *Engine) ReturnToInbox(ctx context.Context, id string) (model.Item, error) {
	return e.MoveTo(ctx, id, model.StateInbox)
}

// MoveTo looks up the item's current state and moves it to to.
func (e *Engine) MoveTo(ctx context.Context, id string, to model.State) (model.Item, error) {
	cur, err := storage.FetchByID(ctx, e.store, id)
	if err != nil {
		return model.Item{}, err
	}
	return e.Move(ctx, id, cur.State, to)
}

// Delete removes the item. A missing item is not an error.
func (e *Engine) Delete(ctx context.Context, id string) error {
	var existed bool
	err := e.store.Update(ctx, func(tx storage.Tx) error {
		var err error
		existed, err = tx.Delete(id)
		return err
	})
	if err != nil {
		e.log.WithError(err).WithField("id", id).Error("delete failed")
		return err
	}

	e.log.WithFields(logrus.Fields{
		"id":      id,
		"existed": existed,
	}).Info("item deleted")
	return nil
}

func validTransition(from, to model.State) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %q -> %q", model.ErrInvalidTransition, from, to)
	}
	if from == to {
		return fmt.Errorf("%w: item is already in %s", model.ErrInvalidTransition, to)
	}
	return nil
}
