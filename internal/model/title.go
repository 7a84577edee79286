package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// FallbackTitle is the label used when no title can be derived at all.
func FallbackTitle(s State) string {
	switch s {
	case StateBookmark:
		return "Untitled Bookmark"
	case StateArchive:
		return "Untitled Archive"
	default:
		return "Untitled Inbox"
	}
}

// DeriveTitle picks the display title for a new item.
// A non-blank explicit title wins; otherwise the host is turned into
// "Blog.Example.Com" style, with a leading "www." dropped.
func DeriveTitle(explicit string, u NormalizedURL) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}

	host := u.Hostname()
	if host == "" {
		return FallbackTitle(StateInbox)
	}

	host = strings.TrimPrefix(host, "www.")
	if strings.Trim(host, ".") == "" {
		return FallbackTitle(StateInbox)
	}
	segments := strings.Split(host, ".")
	for i, seg := range segments {
		segments[i] = upperFirst(seg)
	}
	return strings.Join(segments, ".")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
