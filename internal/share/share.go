// Package share supplies the URL, and optionally a title, that a capture
// starts from.
package share

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrNoURLFound is returned when a payload carries no URL.
var ErrNoURLFound = errors.New("no URL found in shared content")

// Shared is what a provider hands to the capture flow. Title may be empty.
type Shared struct {
	URL   string
	Title string
}

// Provider extracts a shared URL and optional title.
type Provider interface {
	Extract(ctx context.Context) (Shared, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (Shared, error)

func (f ProviderFunc) Extract(ctx context.Context) (Shared, error) { return f(ctx) }

// Static is a provider for manually entered values.
type Static struct {
	URL   string
	Title string
}

func (s Static) Extract(ctx context.Context) (Shared, error) {
	u := strings.TrimSpace(s.URL)
	if u == "" {
		return Shared{}, ErrNoURLFound
	}
	return Shared{URL: u, Title: strings.TrimSpace(s.Title)}, nil
}

var urlPattern = regexp.MustCompile(`(?i)https?://[^\s<>"']+`)

// FindURL returns the first http(s) URL embedded in text.
func FindURL(text string) (string, bool) {
	m := urlPattern.FindString(text)
	if m == "" {
		return "", false
	}
	m = strings.TrimRight(m, ".,;:!?)]}")
	return m, true
}

// textTitle is what remains of text once the URL is removed, if anything.
func textTitle(text, u string) string {
	rest := strings.TrimSpace(strings.Replace(text, u, "", 1))
	rest = strings.Trim(rest, " -|:\n\t")
	return strings.TrimSpace(rest)
}
