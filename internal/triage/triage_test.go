package triage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/logging"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/storage"
	"github.com/nikbrunner/rl/internal/storage/storagetest"
	"github.com/nikbrunner/rl/internal/triage"
)

var t0 = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store  storage.Store
	clock  *storagetest.Clock
	inbox  *inbox.Controller
	engine *triage.Engine
}

func newFixture(t *testing.T, s storage.Store, max int) *fixture {
	t.Helper()
	clock := storagetest.NewClock(t0)
	log := logging.Discard()
	ctrl := inbox.New(s, max, inbox.WithClock(clock.Now), inbox.WithLogger(log))
	return &fixture{
		store:  s,
		clock:  clock,
		inbox:  ctrl,
		engine: triage.New(s, ctrl, log),
	}
}

func (f *fixture) admit(t *testing.T, i int) model.Item {
	t.Helper()
	item, err := f.inbox.Admit(context.Background(), model.ItemData{
		URL:   fmt.Sprintf("https://site%d.com/post", i),
		Title: fmt.Sprintf("Post %d", i),
	})
	assert.NilError(t, err)
	return item
}

func TestEngine_CapturedAtSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range storagetest.Backends(t) {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, s, 5)
			item := f.admit(t, 1)

			path := []model.State{model.StateBookmark, model.StateArchive, model.StateInbox, model.StateBookmark}
			from := model.StateInbox
			for _, to := range path {
				at := f.clock.Advance(time.Hour)

				moved, err := f.engine.Move(ctx, item.ID, from, to)
				assert.NilError(t, err)
				assert.Equal(t, moved.ID, item.ID)
				assert.Equal(t, moved.State, to)
				assert.Equal(t, moved.URL, item.URL)
				assert.Equal(t, moved.Title, item.Title)
				assert.Assert(t, moved.CapturedAt.Equal(t0))
				assert.Assert(t, moved.StateEnteredAt.Equal(at))
				from = to
			}

			stored, err := storage.FetchByID(ctx, s, item.ID)
			assert.NilError(t, err)
			assert.Equal(t, stored.State, model.StateBookmark)
			assert.Assert(t, stored.CapturedAt.Equal(t0))

			at, ok := stored.BookmarkedAt()
			assert.Assert(t, ok)
			assert.Assert(t, at.Equal(t0.Add(4*time.Hour)))
		})
	}
}

func TestEngine_TransitionTable(t *testing.T) {
	ctx := context.Background()
	pairs := [][2]model.State{
		{model.StateInbox, model.StateBookmark},
		{model.StateInbox, model.StateArchive},
		{model.StateBookmark, model.StateArchive},
		{model.StateBookmark, model.StateInbox},
		{model.StateArchive, model.StateBookmark},
		{model.StateArchive, model.StateInbox},
	}

	for _, p := range pairs {
		from, to := p[0], p[1]
		t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
			f := newFixture(t, storagetest.Open(t, storage.BackendSQLite), 5)
			item := f.admit(t, 1)
			if from != model.StateInbox {
				_, err := f.engine.Move(ctx, item.ID, model.StateInbox, from)
				assert.NilError(t, err)
			}

			moved, err := f.engine.Move(ctx, item.ID, from, to)
			assert.NilError(t, err)
			assert.Equal(t, moved.State, to)

			n, err := storage.Count(ctx, f.store, from)
			assert.NilError(t, err)
			assert.Equal(t, n, 0)
			n, err = storage.Count(ctx, f.store, to)
			assert.NilError(t, err)
			assert.Equal(t, n, 1)
		})
	}
}

func TestEngine_MoveIntoFullInbox(t *testing.T) {
	ctx := context.Background()
	for name, s := range storagetest.Backends(t) {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, s, 5)

			parked := f.admit(t, 0)
			_, err := f.engine.Archive(ctx, parked.ID)
			assert.NilError(t, err)

			for i := 1; i <= 5; i++ {
				f.admit(t, i)
			}

			_, err = f.engine.Move(ctx, parked.ID, model.StateArchive, model.StateInbox)
			assert.Assert(t, errors.Is(err, model.ErrInboxFull))

			stored, err := storage.FetchByID(ctx, s, parked.ID)
			assert.NilError(t, err)
			assert.Equal(t, stored.State, model.StateArchive)

			n, err := f.inbox.Count(ctx)
			assert.NilError(t, err)
			assert.Equal(t, n, 5)
		})
	}
}

func TestEngine_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storagetest.Open(t, storage.BackendJSON), 5)
	item := f.admit(t, 1)

	_, err := f.engine.Move(ctx, item.ID, model.StateInbox, model.StateInbox)
	assert.Assert(t, errors.Is(err, model.ErrInvalidTransition))

	_, err = f.engine.Move(ctx, item.ID, model.StateInbox, "trash")
	assert.Assert(t, errors.Is(err, model.ErrInvalidTransition))

	_, err = f.engine.Move(ctx, item.ID, model.StateBookmark, model.StateArchive)
	assert.Assert(t, errors.Is(err, model.ErrNotFound))

	_, err = f.engine.Move(ctx, "missing", model.StateInbox, model.StateBookmark)
	assert.Assert(t, errors.Is(err, model.ErrNotFound))

	_, err = f.engine.Move(ctx, "missing", model.StateBookmark, model.StateInbox)
	assert.Assert(t, errors.Is(err, model.ErrNotFound))
}

func TestEngine_MoveToResolvesSource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storagetest.Open(t, storage.BackendSQLite), 5)
	item := f.admit(t, 1)

	moved, err := f.engine.Bookmark(ctx, item.ID)
	assert.NilError(t, err)
	assert.Equal(t, moved.State, model.StateBookmark)

	moved, err = f.engine.Archive(ctx, item.ID)
	assert.NilError(t, err)
	assert.Equal(t, moved.State, model.StateArchive)

	moved, err = f.engine.ReturnToInbox(ctx, item.ID)
	assert.NilError(t, err)
	assert.Equal(t, moved.State, model.StateInbox)

	_, err = f.engine.ReturnToInbox(ctx, item.ID)
	assert.Assert(t, errors.Is(err, model.ErrInvalidTransition))

	_, err = f.engine.Bookmark(ctx, "missing")
	assert.Assert(t, errors.Is(err, model.ErrNotFound))
}

func TestEngine_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, s := range storagetest.Backends(t) {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, s, 5)
			item := f.admit(t, 1)
			_, err := f.engine.Bookmark(ctx, item.ID)
			assert.NilError(t, err)

			assert.NilError(t, f.engine.Delete(ctx, item.ID))
			assert.NilError(t, f.engine.Delete(ctx, item.ID))
			assert.NilError(t, f.engine.Delete(ctx, "never-existed"))

			for _, st := range model.States {
				n, err := storage.Count(ctx, s, st)
				assert.NilError(t, err)
				assert.Equal(t, n, 0)
			}
		})
	}
}

func TestEngine_DeleteFreesInboxCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storagetest.Open(t, storage.BackendSQLite), 1)
	item := f.admit(t, 1)

	ok, err := f.inbox.CanAdmit(ctx)
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	assert.NilError(t, f.engine.Delete(ctx, item.ID))

	ok, err = f.inbox.CanAdmit(ctx)
	assert.NilError(t, err)
	assert.Assert(t, ok)
}

func TestEngine_ConcurrentReturnsAndAdmits(t *testing.T) {
	ctx := context.Background()
	const max = 5
	for name, s := range storagetest.Backends(t) {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, s, max)

			var parked []string
			for i := 0; i < 3; i++ {
				item := f.admit(t, 100+i)
				_, err := f.engine.Archive(ctx, item.ID)
				assert.NilError(t, err)
				parked = append(parked, item.ID)
			}

			stop := make(chan struct{})
			violations := make(chan string, 1)
			go func() {
				defer close(violations)
				for {
					select {
					case <-stop:
						return
					default:
					}
					err := s.View(ctx, func(tx storage.Tx) error {
						n, err := tx.Count(model.StateInbox)
						if err != nil {
							return err
						}
						if n > max {
							return fmt.Errorf("inbox holds %d items", n)
						}
						for _, id := range parked {
							item, err := tx.Get(id)
							if err != nil {
								return fmt.Errorf("parked item %s: %w", id, err)
							}
							if item.State != model.StateInbox && item.State != model.StateArchive {
								return fmt.Errorf("parked item %s in %s", id, item.State)
							}
						}
						return nil
					})
					if err != nil {
						violations <- err.Error()
						return
					}
				}
			}()

			var wg sync.WaitGroup
			errs := make(chan error, 20)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := f.inbox.Admit(ctx, model.ItemData{
						URL:   fmt.Sprintf("https://race%d.com", i),
						Title: fmt.Sprintf("Race %d", i),
					})
					if err != nil && !errors.Is(err, model.ErrInboxFull) {
						errs <- err
					}
				}(i)
			}
			for _, id := range parked {
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					_, err := f.engine.ReturnToInbox(ctx, id)
					if err != nil && !errors.Is(err, model.ErrInboxFull) {
						errs <- err
					}
				}(id)
			}
			wg.Wait()
			close(stop)
			close(errs)

			for err := range errs {
				t.Errorf("unexpected error: %v", err)
			}
			for v := range violations {
				t.Errorf("reader saw %s", v)
			}

			n, err := f.inbox.Count(ctx)
			assert.NilError(t, err)
			assert.Equal(t, n, max)

			for _, id := range parked {
				item, err := storage.FetchByID(ctx, s, id)
				assert.NilError(t, err)
				assert.Assert(t, item.State == model.StateInbox || item.State == model.StateArchive, item.State)
			}
		})
	}
}
