// Package metadata fetches a page and reads its title and description.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/logging"
	"github.com/nikbrunner/rl/internal/model"
)

// MaxBodyBytes caps how much of a page is read; titles live in the head.
const MaxBodyBytes = 1 << 20

// ErrNotHTML is returned for responses that are not HTML documents.
var ErrNotHTML = errors.New("response is not an HTML document")

// Options configure a Fetcher.
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	UserAgent    string
	Logger       logrus.FieldLogger
}

// Fetcher retrieves page metadata over HTTP.
type Fetcher struct {
	client    *retryablehttp.Client
	userAgent string
}

// New returns a Fetcher. Zero options get sensible defaults.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "rl/1.0"
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	client.HTTPClient.Timeout = opts.Timeout
	client.Logger = logging.Leveled{Log: opts.Logger}

	return &Fetcher{client: client, userAgent: opts.UserAgent}
}

// Fetch downloads url and extracts its metadata. It honours ctx cancellation.
func (f *Fetcher) Fetch(ctx context.Context, url string) (model.Metadata, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Metadata{}, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Metadata{}, fmt.Errorf("%s returned %s", url, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return model.Metadata{}, fmt.Errorf("%w: %s", ErrNotHTML, ct)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return model.Metadata{}, fmt.Errorf("parse document: %w", err)
	}

	return Extract(doc), nil
}

// Extract reads metadata from a parsed document. Open Graph and Twitter
// card tags win over the plain title and description.
func Extract(doc *goquery.Document) model.Metadata {
	return model.Metadata{
		Title: first(
			metaContent(doc, `meta[property="og:title"]`),
			metaContent(doc, `meta[name="twitter:title"]`),
			clean(doc.Find("head title").First().Text()),
			clean(doc.Find("title").First().Text()),
		),
		Description: first(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="twitter:description"]`),
			metaContent(doc, `meta[name="description"]`),
		),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return clean(content)
}

// clean collapses runs of whitespace.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
