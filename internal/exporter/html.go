package exporter

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/nikbrunner/rl/internal/model"
)

// Formats accepted by Export.
const (
	FormatHTML = "html"
	FormatYAML = "yaml"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/rl-export-YYYY-MM-DD.<ext>
func DefaultExportPath(format string, now time.Time) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	ext := "html"
	if format == FormatYAML {
		ext = "yaml"
	}
	filename := fmt.Sprintf("rl-export-%s.%s", now.Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// Export renders items in the given format.
func Export(items []model.Item, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatHTML, "":
		return []byte(ExportHTML(items)), nil
	case FormatYAML, "yml":
		return ExportYAML(items)
	}
	return nil, fmt.Errorf("unknown export format %q (want html or yaml)", format)
}

// ExportHTML renders items as Netscape bookmark HTML with one folder per
// state. ADD_DATE is the capture time and LAST_MODIFIED the time the item
// entered its state.
func ExportHTML(items []model.Item) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, state := range model.States {
		writeState(&b, state, byState(items, state))
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeState(b *strings.Builder, state model.State, items []model.Item) {
	if len(items) == 0 {
		return
	}
	prefix := "    "

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(state.Label()))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for _, item := range items {
		fmt.Fprintf(b,
			"%s    <DT><A HREF=\"%s\" ADD_DATE=\"%d\" LAST_MODIFIED=\"%d\">%s</A>\n",
			prefix,
			html.EscapeString(item.URL),
			item.CapturedAt.Unix(),
			item.StateEnteredAt.Unix(),
			html.EscapeString(item.Title),
		)
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

func byState(items []model.Item, state model.State) []model.Item {
	var out []model.Item
	for _, item := range items {
		if item.State == state {
			out = append(out, item)
		}
	}
	return out
}
