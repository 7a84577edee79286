// Package library is the surface every front end (CLI, TUI, HTTP) talks to.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/capture"
	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/search"
	"github.com/nikbrunner/rl/internal/share"
	"github.com/nikbrunner/rl/internal/storage"
	"github.com/nikbrunner/rl/internal/triage"
)

// Library ties the store, admission control, triage and capture together.
type Library struct {
	store   storage.Store
	inbox   *inbox.Controller
	engine  *triage.Engine
	fetcher capture.MetadataFetcher
	log     logrus.FieldLogger
}

// Options configure a Library.
type Options struct {
	MaxInboxItems int
	// Fetcher is used for captures without a title; nil disables fetching.
	Fetcher capture.MetadataFetcher
	Logger  logrus.FieldLogger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New returns a Library over store.
func New(store storage.Store, opts Options) *Library {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	inboxOpts := []inbox.Option{inbox.WithLogger(log)}
	if opts.Now != nil {
		inboxOpts = append(inboxOpts, inbox.WithClock(opts.Now))
	}
	ctrl := inbox.New(store, opts.MaxInboxItems, inboxOpts...)

	return &Library{
		store:   store,
		inbox:   ctrl,
		engine:  triage.New(store, ctrl, log),
		fetcher: opts.Fetcher,
		log:     log,
	}
}

// Store returns the underlying store.
func (l *Library) Store() storage.Store {
	return l.store
}

// NewItemData validates a URL and resolves its title without storing anything.
func (l *Library) NewItemData(rawURL, title string) (model.ItemData, error) {
	return model.NewItemData(rawURL, title)
}

// AddToInbox captures a manually entered URL. A blank title triggers a
// metadata fetch when a fetcher is configured.
func (l *Library) AddToInbox(ctx context.Context, rawURL, title string) (model.Item, error) {
	return l.Capture(ctx, share.Static{URL: rawURL, Title: title})
}

// AddWithoutFetch is AddToInbox with metadata fetching turned off.
func (l *Library) AddWithoutFetch(ctx context.Context, rawURL, title string) (model.Item, error) {
	return l.CaptureWithoutFetch(ctx, share.Static{URL: rawURL, Title: title})
}

// CaptureWithoutFetch is Capture with metadata fetching turned off.
func (l *Library) CaptureWithoutFetch(ctx context.Context, p share.Provider) (model.Item, error) {
	uc := l.useCase(p)
	uc.Fetcher = nil
	return uc.Execute(ctx)
}

// Capture runs the capture flow against an arbitrary provider.
func (l *Library) Capture(ctx context.Context, p share.Provider) (model.Item, error) {
	return l.useCase(p).Execute(ctx)
}

func (l *Library) useCase(p share.Provider) *capture.UseCase {
	return &capture.UseCase{
		Provider: p,
		Fetcher:  l.fetcher,
		Inbox:    l.inbox,
		Log:      l.log,
	}
}

// MoveItem moves an item between states.
func (l *Library) MoveItem(ctx context.Context, id string, from, to model.State) (model.Item, error) {
	return l.engine.Move(ctx, id, from, to)
}

// MoveTo moves an item to a state from wherever it currently is.
func (l *Library) MoveTo(ctx context.Context, id string, to model.State) (model.Item, error) {
	return l.engine.MoveTo(ctx, id, to)
}

// DeleteItem removes an item; deleting a missing item succeeds.
func (l *Library) DeleteItem(ctx context.Context, id string) error {
	return l.engine.Delete(ctx, id)
}

// GetItem returns an item by ID.
func (l *Library) GetItem(ctx context.Context, id string) (model.Item, error) {
	return storage.FetchByID(ctx, l.store, id)
}

// ErrAmbiguousID is returned by ResolveID when a prefix matches several items.
var ErrAmbiguousID = errors.New("id prefix matches more than one item")

// ResolveID finds the item whose ID is id or starts with it, so that short
// IDs printed by the CLI can be typed back.
func (l *Library) ResolveID(ctx context.Context, id string) (model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Item{}, model.ErrNotFound
	}

	all, err := l.AllItems(ctx)
	if err != nil {
		return model.Item{}, err
	}

	var matches []model.Item
	for _, item := range all {
		if item.ID == id {
			return item, nil
		}
		if strings.HasPrefix(item.ID, id) {
			matches = append(matches, item)
		}
	}

	switch len(matches) {
	case 0:
		return model.Item{}, model.ErrNotFound
	case 1:
		return matches[0], nil
	}
	return model.Item{}, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
}

// ListItems returns the items in state, most recently entered first.
func (l *Library) ListItems(ctx context.Context, state model.State) ([]model.Item, error) {
	if !state.Valid() {
		_, err := model.ParseState(string(state))
		return nil, err
	}
	return storage.FetchAll(ctx, l.store, state)
}

// SearchItems lists the items in state whose title or URL contains query.
func (l *Library) SearchItems(ctx context.Context, state model.State, query string) ([]model.Item, error) {
	items, err := l.ListItems(ctx, state)
	if err != nil {
		return nil, err
	}
	return search.Filter(items, query), nil
}

// AllItems returns every item, grouped by state in display order.
func (l *Library) AllItems(ctx context.Context) ([]model.Item, error) {
	var all []model.Item
	err := l.store.View(ctx, func(tx storage.Tx) error {
		for _, st := range model.States {
			items, err := tx.List(st)
			if err != nil {
				return err
			}
			all = append(all, items...)
		}
		return nil
	})
	return all, err
}

// FindItems fuzzy-ranks every item by title, best first.
func (l *Library) FindItems(ctx context.Context, query string) ([]search.SearchResult, error) {
	all, err := l.AllItems(ctx)
	if err != nil {
		return nil, err
	}
	return search.Fuzzy(all, query), nil
}

// InboxStatus reports Inbox capacity.
func (l *Library) InboxStatus(ctx context.Context) (inbox.Status, error) {
	return l.inbox.Status(ctx)
}

// Counts returns the number of items per state.
func (l *Library) Counts(ctx context.Context) (map[model.State]int, error) {
	counts := make(map[model.State]int, len(model.States))
	err := l.store.View(ctx, func(tx storage.Tx) error {
		for _, st := range model.States {
			n, err := tx.Count(st)
			if err != nil {
				return err
			}
			counts[st] = n
		}
		return nil
	})
	return counts, err
}

// Link is one imported link.
type Link struct {
	URL   string
	Title string
}

// ImportResult summarizes an Import.
type ImportResult struct {
	Added    []model.Item
	Invalid  int // failed URL validation
	Rejected int // not admitted because the Inbox was full
}

// Import admits links into the Inbox through the factory, in order, until
// the Inbox is full. Links that fail validation are counted and skipped.
func (l *Library) Import(ctx context.Context, links []Link) (ImportResult, error) {
	var res ImportResult

	for i, link := range links {
		data, err := model.NewItemData(link.URL, link.Title)
		if err != nil {
			res.Invalid++
			l.log.WithError(err).WithField("url", link.URL).Debug("skipping invalid link")
			continue
		}

		item, err := l.inbox.Admit(ctx, data)
		if err != nil {
			if errors.Is(err, model.ErrInboxFull) {
				for _, rest := range links[i:] {
					if _, err := model.NewItemData(rest.URL, rest.Title); err != nil {
						res.Invalid++
					} else {
						res.Rejected++
					}
				}
				return res, nil
			}
			return res, err
		}
		res.Added = append(res.Added, item)
	}

	return res, nil
}
