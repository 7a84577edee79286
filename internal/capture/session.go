package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/nikbrunner/rl/internal/model"
)

// DefaultDebounce is how long Schedule waits for input to settle.
const DefaultDebounce = 500 * time.Millisecond

// Session wraps a MetadataFetcher so that at most one fetch is in flight:
// starting a fetch cancels the previous one.
type Session struct {
	fetcher  MetadataFetcher
	debounce func(func())

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// NewSession returns a Session. A non-positive wait uses DefaultDebounce.
func NewSession(fetcher MetadataFetcher, wait time.Duration) *Session {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Session{
		fetcher:  fetcher,
		debounce: debounce.New(wait),
	}
}

// Fetch cancels any in-flight fetch and starts a new one for url.
func (s *Session) Fetch(ctx context.Context, url string) (model.Metadata, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	meta, err := s.fetcher.Fetch(ctx, url)

	s.mu.Lock()
	if s.seq == seq {
		s.cancel = nil
	}
	s.mu.Unlock()

	if err == nil && ctx.Err() != nil {
		// superseded after the fetcher returned
		return model.Metadata{}, ctx.Err()
	}
	return meta, err
}

// Cancel aborts the in-flight fetch, if any.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}

// Schedule fetches url once input has been quiet for the debounce window and
// reports the result to done, from another goroutine. A later Schedule
// replaces a pending one; a superseded fetch is cancelled and done is not
// called for it.
func (s *Session) Schedule(ctx context.Context, url string, done func(url string, meta model.Metadata, err error)) {
	s.debounce(func() {
		meta, err := s.Fetch(ctx, url)
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return
		}
		done(url, meta, err)
	})
}
