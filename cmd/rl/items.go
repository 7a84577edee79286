package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/tui/layout"
)

// shortID is the ID prefix printed in listings; ResolveID accepts it back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// printItems writes items as an aligned table.
func printItems(w io.Writer, items []model.Item, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tTITLE\tURL\tSINCE")
	text := layout.TextConfig{Ellipsis: "..."}
	for _, item := range items {
		title, _ := layout.TruncateText(item.Title, 50, text)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(item.ID), item.State, title, item.URL, layout.FormatAge(item.StateEnteredAt, now))
	}
	return tw.Flush()
}

// printItem writes one item as "Label: title <url> (id)".
func printItem(w io.Writer, prefix string, item model.Item) {
	fmt.Fprintf(w, "%s %s: %s <%s> (%s)\n", prefix, item.State.Label(), item.Title, item.URL, shortID(item.ID))
}

// resolve accepts a full ID or a unique prefix.
func (a *app) resolve(ctx context.Context, id string) (model.Item, error) {
	item, err := a.lib.ResolveID(ctx, id)
	if err != nil {
		return model.Item{}, fmt.Errorf("%s: %w", id, err)
	}
	return item, nil
}
