package library_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/rl/internal/capture"
	"github.com/nikbrunner/rl/internal/library"
	"github.com/nikbrunner/rl/internal/logging"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/share"
	"github.com/nikbrunner/rl/internal/storage"
	"github.com/nikbrunner/rl/internal/storage/storagetest"
)

type fetcherFunc func(ctx context.Context, url string) (model.Metadata, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (model.Metadata, error) { return f(ctx, url) }

func newLibrary(t *testing.T, max int, f capture.MetadataFetcher) (*library.Library, *storagetest.Clock) {
	t.Helper()
	clock := storagetest.NewClock(time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC))
	lib := library.New(storagetest.Open(t, storage.BackendSQLite), library.Options{
		MaxInboxItems: max,
		Fetcher:       f,
		Logger:        logging.Discard(),
		Now:           clock.Now,
	})
	return lib, clock
}

func TestLibrary_NewItemData(t *testing.T) {
	lib, _ := newLibrary(t, 5, nil)

	data, err := lib.NewItemData("https://www.github.com/x", "")
	assert.NilError(t, err)
	assert.Equal(t, data.Title, "Github.Com")

	_, err = lib.NewItemData("", "")
	assert.Assert(t, errors.Is(err, model.ErrEmptyURL))

	n, err := storage.Count(context.Background(), lib.Store(), model.StateInbox)
	assert.NilError(t, err)
	assert.Equal(t, n, 0, "NewItemData must not store anything")
}

func TestLibrary_AddWithoutFetch(t *testing.T) {
	called := false
	lib, _ := newLibrary(t, 5, fetcherFunc(func(ctx context.Context, url string) (model.Metadata, error) {
		called = true
		return model.Metadata{Title: "Fetched"}, nil
	}))

	item, err := lib.AddWithoutFetch(context.Background(), "https://example.com", "")
	assert.NilError(t, err)
	assert.Equal(t, item.Title, "Example.Com")
	assert.Assert(t, !called)

	item, err = lib.AddToInbox(context.Background(), "https://example.org", "")
	assert.NilError(t, err)
	assert.Equal(t, item.Title, "Fetched")
	assert.Assert(t, called)
}

func TestLibrary_SearchItems(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, 5, nil)

	_, err := lib.AddToInbox(ctx, "https://developer.apple.com/swift", "Swift Guide")
	assert.NilError(t, err)
	_, err = lib.AddToInbox(ctx, "https://go.dev", "Go")
	assert.NilError(t, err)

	got, err := lib.SearchItems(ctx, model.StateInbox, "swift")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Title, "Swift Guide")

	got, err = lib.SearchItems(ctx, model.StateInbox, "")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 2)

	got, err = lib.SearchItems(ctx, model.StateInbox, "python")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)

	got, err = lib.SearchItems(ctx, model.StateBookmark, "swift")
	assert.NilError(t, err)
	assert.Equal(t, len(got), 0)

	_, err = lib.ListItems(ctx, "trash")
	assert.Assert(t, errors.Is(err, model.ErrInvalidTransition))
}

func TestLibrary_MoveDeleteAndStatus(t *testing.T) {
	ctx := context.Background()
	lib, clock := newLibrary(t, 5, nil)

	item, err := lib.AddToInbox(ctx, "https://example.com", "Example")
	assert.NilError(t, err)

	clock.Advance(time.Hour)
	moved, err := lib.MoveItem(ctx, item.ID, model.StateInbox, model.StateArchive)
	assert.NilError(t, err)
	assert.Assert(t, moved.CapturedAt.Equal(item.CapturedAt))
	at, ok := moved.ArchivedAt()
	assert.Assert(t, ok)
	assert.Assert(t, at.Equal(clock.T))

	counts, err := lib.Counts(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, counts, map[model.State]int{model.StateInbox: 0, model.StateBookmark: 0, model.StateArchive: 1})

	st, err := lib.InboxStatus(ctx)
	assert.NilError(t, err)
	assert.Equal(t, st.Remaining, 5)

	assert.NilError(t, lib.DeleteItem(ctx, item.ID))
	_, err = lib.GetItem(ctx, item.ID)
	assert.Assert(t, errors.Is(err, model.ErrNotFound))
}

func TestLibrary_FindItems(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, 5, nil)

	router, err := lib.AddToInbox(ctx, "https://router.example.com", "Router")
	assert.NilError(t, err)
	_, err = lib.MoveTo(ctx, router.ID, model.StateBookmark)
	assert.NilError(t, err)
	_, err = lib.AddToInbox(ctx, "https://reactrouter.com", "React Router Documentation")
	assert.NilError(t, err)

	results, err := lib.FindItems(ctx, "router")
	assert.NilError(t, err)
	assert.Equal(t, len(results), 2)
	assert.Equal(t, results[0].Item.Title, "Router")
	assert.Equal(t, results[0].Item.State, model.StateBookmark)
}

func TestLibrary_ImportStopsAtCapacity(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, 3, nil)

	links := []library.Link{
		{URL: "https://one.com", Title: "One"},
		{URL: "javascript:alert(1)"},
		{URL: "https://two.com"},
		{URL: "https://three.com", Title: "Three"},
		{URL: "https://four.com"},
		{URL: ""},
	}
	res, err := lib.Import(ctx, links)
	assert.NilError(t, err)
	assert.Equal(t, len(res.Added), 3)
	assert.Equal(t, res.Invalid, 2)
	assert.Equal(t, res.Rejected, 1)
	assert.Equal(t, res.Added[1].Title, "Two.Com")

	st, err := lib.InboxStatus(ctx)
	assert.NilError(t, err)
	assert.Assert(t, st.Full)
}

func TestLibrary_CaptureInboxFull(t *testing.T) {
	ctx := context.Background()
	lib, _ := newLibrary(t, 1, nil)

	_, err := lib.AddToInbox(ctx, "https://one.com", "")
	assert.NilError(t, err)

	for i := 0; i < 2; i++ {
		_, err = lib.AddToInbox(ctx, fmt.Sprintf("https://more%d.com", i), "")
		assert.Equal(t, capture.KindOf(err), capture.KindInboxFull)
	}
}

func TestLibrary_ResolveID(t *testing.T) {
	ctx := context.Background()
	lib, clock := newLibrary(t, 5, nil)

	for _, id := range []string{"abc-1", "abc-2", "xyz"} {
		item := model.Item{
			ID:             id,
			URL:            "https://" + id + ".example",
			Title:          id,
			State:          model.StateBookmark,
			CapturedAt:     clock.T,
			StateEnteredAt: clock.T,
		}
		assert.NilError(t, storage.Insert(ctx, lib.Store(), item))
	}

	item, err := lib.ResolveID(ctx, "xy")
	assert.NilError(t, err)
	assert.Equal(t, item.ID, "xyz")

	item, err = lib.ResolveID(ctx, "abc-2")
	assert.NilError(t, err)
	assert.Equal(t, item.ID, "abc-2")

	_, err = lib.ResolveID(ctx, "abc")
	assert.Assert(t, errors.Is(err, library.ErrAmbiguousID))

	_, err = lib.ResolveID(ctx, "nope")
	assert.Assert(t, errors.Is(err, model.ErrNotFound))

	_, err = lib.ResolveID(ctx, " ")
	assert.Assert(t, errors.Is(err, model.ErrNotFound))
}

func TestLibrary_CaptureWithoutFetch(t *testing.T) {
	lib, _ := newLibrary(t, 5, fetcherFunc(func(ctx context.Context, url string) (model.Metadata, error) {
		t.Error("fetcher must not be called")
		return model.Metadata{}, nil
	}))

	item, err := lib.CaptureWithoutFetch(context.Background(), share.Static{URL: "https://go.dev"})
	assert.NilError(t, err)
	assert.Equal(t, item.Title, "Go.Dev")
}
