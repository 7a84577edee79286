package share

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard reads the first http(s) URL from the system clipboard.
type Clipboard struct {
	// Read defaults to clipboard.ReadAll.
	Read func() (string, error)
}

func (c Clipboard) Extract(ctx context.Context) (Shared, error) {
	read := c.Read
	if read == nil {
		read = clipboard.ReadAll
	}

	text, err := read()
	if err != nil {
		return Shared{}, err
	}

	u, ok := FindURL(strings.TrimSpace(text))
	if !ok {
		return Shared{}, ErrNoURLFound
	}
	return Shared{URL: u}, nil
}
