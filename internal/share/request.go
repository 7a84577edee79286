package share

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxPayloadBytes caps how much of a share request body is read.
const MaxPayloadBytes = 64 << 10

// Request is a share payload received over HTTP, either a JSON document
// or form values.
type Request struct {
	JSON []byte
	Form url.Values
}

// NewRequest reads the share payload from r.
func NewRequest(r *http.Request) (*Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxPayloadBytes))
		if err != nil {
			return nil, fmt.Errorf("reading share payload: %w", err)
		}
		return &Request{JSON: body}, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxPayloadBytes)
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parsing share form: %w", err)
	}
	return &Request{Form: r.Form}, nil
}

func (r *Request) Extract(ctx context.Context) (Shared, error) {
	var rawURL, title, text string

	if len(r.JSON) > 0 {
		if !gjson.ValidBytes(r.JSON) {
			return Shared{}, fmt.Errorf("%w: payload is not valid JSON", ErrNoURLFound)
		}
		res := gjson.GetManyBytes(r.JSON, "url", "link", "title", "text")
		rawURL = res[0].String()
		if rawURL == "" {
			rawURL = res[1].String()
		}
		title = res[2].String()
		text = res[3].String()
	} else {
		rawURL = r.Form.Get("url")
		if rawURL == "" {
			rawURL = r.Form.Get("link")
		}
		title = r.Form.Get("title")
		text = r.Form.Get("text")
	}

	rawURL = strings.TrimSpace(rawURL)
	title = strings.TrimSpace(title)

	if rawURL == "" && text != "" {
		if u, ok := FindURL(text); ok {
			rawURL = u
			if title == "" {
				title = textTitle(text, u)
			}
		}
	}
	if rawURL == "" {
		return Shared{}, ErrNoURLFound
	}

	return Shared{URL: rawURL, Title: title}, nil
}
