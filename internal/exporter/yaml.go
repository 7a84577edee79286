package exporter

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/rl/internal/model"
)

type yamlItem struct {
	ID             string    `yaml:"id"`
	URL            string    `yaml:"url"`
	Title          string    `yaml:"title"`
	CapturedAt     time.Time `yaml:"captured_at"`
	StateEnteredAt time.Time `yaml:"state_entered_at"`
}

type yamlDoc struct {
	Inbox     []yamlItem `yaml:"inbox"`
	Bookmarks []yamlItem `yaml:"bookmarks"`
	Archive   []yamlItem `yaml:"archive"`
}

// ExportYAML renders items as a YAML document keyed by state.
func ExportYAML(items []model.Item) ([]byte, error) {
	doc := yamlDoc{
		Inbox:     []yamlItem{},
		Bookmarks: []yamlItem{},
		Archive:   []yamlItem{},
	}
	for _, item := range items {
		y := yamlItem{
			ID:             item.ID,
			URL:            item.URL,
			Title:          item.Title,
			CapturedAt:     item.CapturedAt.UTC(),
			StateEnteredAt: item.StateEnteredAt.UTC(),
		}
		switch item.State {
		case model.StateInbox:
			doc.Inbox = append(doc.Inbox, y)
		case model.StateBookmark:
			doc.Bookmarks = append(doc.Bookmarks, y)
		case model.StateArchive:
			doc.Archive = append(doc.Archive, y)
		}
	}
	return yaml.Marshal(doc)
}
