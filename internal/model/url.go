package model

import (
	"net/url"
	"strings"
)

// NormalizedURL is a validated http(s) URL string.
type NormalizedURL string

// String returns the URL as stored.
func (u NormalizedURL) String() string { return string(u) }

// Hostname returns the host without port, or "" if it cannot be parsed.
func (u NormalizedURL) Hostname() string {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// ValidateURL trims raw and checks that it is an http or https URL with a host.
// The trimmed input is returned verbatim; scheme and host case are kept.
func ValidateURL(raw string) (NormalizedURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" {
		return "", ErrInvalidFormat
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", ErrUnsupportedScheme
	}

	if parsed.Hostname() == "" {
		return "", ErrInvalidFormat
	}

	return NormalizedURL(trimmed), nil
}
