package inbox_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/logging"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/storage"
	"github.com/nikbrunner/rl/internal/storage/storagetest"
)

func data(i int) model.ItemData {
	return model.ItemData{URL: fmt.Sprintf("https://site%d.com", i), Title: fmt.Sprintf("Site %d", i)}
}

func TestController_AdmitUntilFull(t *testing.T) {
	ctx := context.Background()
	for name, s := range storagetest.Backends(t) {
		t.Run(name, func(t *testing.T) {
			c := inbox.New(s, 5, inbox.WithLogger(logging.Discard()))

			for i := 0; i < 5; i++ {
				ok, err := c.CanAdmit(ctx)
				assert.NilError(t, err)
				assert.Assert(t, ok)

				_, err = c.Admit(ctx, data(i))
				assert.NilError(t, err)
			}

			ok, err := c.CanAdmit(ctx)
			assert.NilError(t, err)
			assert.Assert(t, !ok)

			_, err = c.Admit(ctx, data(6))
			assert.Assert(t, errors.Is(err, model.ErrInboxFull))

			n, err := c.Count(ctx)
			assert.NilError(t, err)
			assert.Equal(t, n, 5)

			left, err := c.RemainingCapacity(ctx)
			assert.NilError(t, err)
			assert.Equal(t, left, 0)
		})
	}
}

func TestController_AdmitSetsTimestamps(t *testing.T) {
	ctx := context.Background()
	clock := storagetest.NewClock(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	s := storagetest.Open(t, storage.BackendSQLite)
	c := inbox.New(s, 5, inbox.WithClock(clock.Now), inbox.WithLogger(logging.Discard()))

	item, err := c.Admit(ctx, data(1))
	assert.NilError(t, err)
	assert.Equal(t, item.State, model.StateInbox)
	assert.Assert(t, item.ID != "")
	assert.Assert(t, item.CapturedAt.Equal(clock.T))
	assert.Assert(t, item.StateEnteredAt.Equal(clock.T))

	stored, err := storage.FetchByID(ctx, s, item.ID)
	assert.NilError(t, err)
	assert.Equal(t, stored.URL, "https://site1.com")
	assert.Equal(t, stored.Title, "Site 1")
}

func TestController_ItemsInOtherStatesDoNotCount(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t, storage.BackendJSON)
	c := inbox.New(s, 1, inbox.WithLogger(logging.Discard()))

	bookmark := model.NewInboxItem(data(1), time.Now())
	bookmark.State = model.StateBookmark
	assert.NilError(t, storage.Insert(ctx, s, bookmark))

	_, err := c.Admit(ctx, data(2))
	assert.NilError(t, err)
}

func TestController_WarningThreshold(t *testing.T) {
	tests := []struct {
		max  int
		want int
	}{
		{max: 5, want: 4},
		{max: 10, want: 8},
		{max: 1, want: 0},
		{max: 3, want: 2},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.max), func(t *testing.T) {
			c := inbox.New(nil, tt.max)
			assert.Equal(t, c.WarningThreshold(), tt.want)
		})
	}
}

func TestController_DefaultMax(t *testing.T) {
	assert.Equal(t, inbox.New(nil, 0).Max(), inbox.DefaultMax)
	assert.Equal(t, inbox.New(nil, -3).Max(), inbox.DefaultMax)
}

func TestController_Status(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t, storage.BackendSQLite)
	c := inbox.New(s, 5, inbox.WithLogger(logging.Discard()))

	st, err := c.Status(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, st, inbox.Status{Count: 0, Max: 5, Remaining: 5, WarningThreshold: 4})

	for i := 0; i < 4; i++ {
		_, err := c.Admit(ctx, data(i))
		assert.NilError(t, err)
	}

	near, err := c.NearCapacity(ctx)
	assert.NilError(t, err)
	assert.Assert(t, near)

	st, err = c.Status(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, st, inbox.Status{Count: 4, Max: 5, Remaining: 1, WarningThreshold: 4, NearCapacity: true})
}

func TestController_CheckInsideTransaction(t *testing.T) {
	ctx := context.Background()
	s := storagetest.Open(t, storage.BackendSQLite)
	c := inbox.New(s, 1, inbox.WithLogger(logging.Discard()))

	_, err := c.Admit(ctx, data(1))
	assert.NilError(t, err)

	err = s.View(ctx, func(tx storage.Tx) error {
		return c.Check(tx)
	})
	assert.Assert(t, errors.Is(err, model.ErrInboxFull))
}

func TestController_ConcurrentAdmitNeverOvershoots(t *testing.T) {
	ctx := context.Background()
	const max, writers = 5, 40
	for name, s := range storagetest.Backends(t) {
		t.Run(name, func(t *testing.T) {
			c := inbox.New(s, max, inbox.WithLogger(logging.Discard()))

			stop := make(chan struct{})
			peak := make(chan int, 1)
			go func() {
				seen := 0
				for {
					select {
					case <-stop:
						peak <- seen
						return
					default:
					}
					if n, err := storage.Count(ctx, s, model.StateInbox); err == nil && n > seen {
						seen = n
					}
				}
			}()

			var (
				wg       sync.WaitGroup
				admitted atomic.Int32
				full     atomic.Int32
				other    = make(chan error, writers)
			)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := c.Admit(ctx, data(i))
					switch {
					case err == nil:
						admitted.Add(1)
					case errors.Is(err, model.ErrInboxFull):
						full.Add(1)
					default:
						other <- err
					}
				}(i)
			}
			wg.Wait()
			close(stop)
			close(other)

			for err := range other {
				t.Errorf("unexpected admit error: %v", err)
			}
			assert.Equal(t, int(admitted.Load()), max)
			assert.Equal(t, int(full.Load()), writers-max)
			assert.Assert(t, <-peak <= max)

			n, err := c.Count(ctx)
			assert.NilError(t, err)
			assert.Equal(t, n, max)
		})
	}
}
