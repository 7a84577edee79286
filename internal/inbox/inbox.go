// Package inbox implements admission control for the capacity-bounded Inbox.
package inbox

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/storage"
)

// DefaultMax is the Inbox capacity used when none is configured.
const DefaultMax = 5

// Controller admits new items into the Inbox while it has room.
type Controller struct {
	store storage.Store
	max   int
	now   func() time.Time
	log   logrus.FieldLogger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for admission timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = log }
}

// New returns a Controller over store. A non-positive max falls back to DefaultMax.
func New(store storage.Store, max int, opts ...Option) *Controller {
	if max <= 0 {
		max = DefaultMax
	}
	c := &Controller{
		store: store,
		max:   max,
		now:   time.Now,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Max returns the Inbox capacity.
func (c *Controller) Max() int {
	return c.max
}

// WarningThreshold is the count at which the Inbox is considered nearly full.
func (c *Controller) WarningThreshold() int {
	return int(float64(c.max) * 0.8)
}

// Now returns the controller's current time.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Count returns the number of items in the Inbox.
func (c *Controller) Count(ctx context.Context) (int, error) {
	return storage.Count(ctx, c.store, model.StateInbox)
}

// CanAdmit reports whether one more item fits.
func (c *Controller) CanAdmit(ctx context.Context) (bool, error) {
	n, err := c.Count(ctx)
	if err != nil {
		return false, err
	}
	return n < c.max, nil
}

// RemainingCapacity returns how many more items fit, never below zero.
func (c *Controller) RemainingCapacity(ctx context.Context) (int, error) {
	n, err := c.Count(ctx)
	if err != nil {
		return 0, err
	}
	return remaining(n, c.max), nil
}

// NearCapacity reports whether the Inbox has reached the warning threshold.
func (c *Controller) NearCapacity(ctx context.Context) (bool, error) {
	n, err := c.Count(ctx)
	if err != nil {
		return false, err
	}
	return n >= c.WarningThreshold(), nil
}

// Check fails with model.ErrInboxFull when tx already holds max Inbox items.
func (c *Controller) Check(tx storage.Tx) error {
	n, err := tx.Count(model.StateInbox)
	if err != nil {
		return err
	}
	if n >= c.max {
		return model.ErrInboxFull
	}
	return nil
}

// Admit stores data as a new Inbox item. The capacity check and the insert
// share one transaction.
func (c *Controller) Admit(ctx context.Context, data model.ItemData) (model.Item, error) {
	item := model.NewInboxItem(data, c.now())

	err := c.store.Update(ctx, func(tx storage.Tx) error {
		if err := c.Check(tx); err != nil {
			return err
		}
		return tx.Insert(item)
	})
	if err != nil {
		if model.IsStorageError(err) {
			c.log.WithError(err).Error("inbox admission failed")
		}
		return model.Item{}, err
	}

	c.log.WithFields(logrus.Fields{
		"id":  item.ID,
		"url": item.URL,
	}).Info("item admitted to inbox")
	return item, nil
}

// Status is a snapshot of Inbox capacity.
type Status struct {
	Count            int  `json:"count" yaml:"count"`
	Max              int  `json:"max" yaml:"max"`
	Remaining        int  `json:"remaining" yaml:"remaining"`
	WarningThreshold int  `json:"warningThreshold" yaml:"warning_threshold"`
	NearCapacity     bool `json:"nearCapacity" yaml:"near_capacity"`
	Full             bool `json:"full" yaml:"full"`
}

// Status reads the Inbox count once and derives every capacity figure from it.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	n, err := c.Count(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Count:            n,
		Max:              c.max,
		Remaining:        remaining(n, c.max),
		WarningThreshold: c.WarningThreshold(),
		NearCapacity:     n >= c.WarningThreshold(),
		Full:             n >= c.max,
	}, nil
}

func remaining(n, max int) int {
	if n >= max {
		return 0
	}
	return max - n
}
