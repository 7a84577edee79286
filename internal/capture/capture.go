// Package capture turns a shared URL into a new Inbox item.
package capture

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/share"
)

// MetadataFetcher looks up a page title. Failures are never fatal to a capture.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) (model.Metadata, error)
}

// UseCase runs one capture: provider, optional metadata fetch, factory,
// then admission.
type UseCase struct {
	Provider share.Provider
	Fetcher  MetadataFetcher // optional
	Inbox    *inbox.Controller
	Log      logrus.FieldLogger
}

// Execute captures the provided URL into the Inbox. It returns a *Error on failure.
func (u *UseCase) Execute(ctx context.Context) (model.Item, error) {
	log := u.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	shared, err := u.Provider.Extract(ctx)
	if err != nil {
		return model.Item{}, &Error{Kind: KindNoURLFound, Err: err}
	}
	if strings.TrimSpace(shared.URL) == "" {
		return model.Item{}, &Error{Kind: KindNoURLFound, Err: share.ErrNoURLFound}
	}

	title := strings.TrimSpace(shared.Title)
	if title == "" && u.Fetcher != nil {
		title = u.fetchTitle(ctx, log, shared.URL)
	}

	data, err := model.NewItemData(shared.URL, title)
	if err != nil {
		return model.Item{}, &Error{Kind: KindCreationFailed, Err: err}
	}

	item, err := u.Inbox.Admit(ctx, data)
	switch {
	case errors.Is(err, model.ErrInboxFull):
		return model.Item{}, &Error{Kind: KindInboxFull, Err: err}
	case err != nil:
		return model.Item{}, &Error{Kind: KindStorage, Err: err}
	}

	log.WithFields(logrus.Fields{
		"id":    item.ID,
		"title": item.Title,
	}).Info("captured")
	return item, nil
}

// fetchTitle returns the fetched title, or "" on any failure.
func (u *UseCase) fetchTitle(ctx context.Context, log logrus.FieldLogger, rawURL string) string {
	nu, err := model.ValidateURL(rawURL)
	if err != nil {
		// the factory reports this
		return ""
	}

	meta, err := u.Fetcher.Fetch(ctx, nu.String())
	if err != nil {
		log.WithError(err).WithField("url", nu.String()).Debug("metadata fetch failed")
		return ""
	}
	return strings.TrimSpace(meta.Title)
}
