package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/share"
)

var addCmd = &cobra.Command{
	Use:   "add [url]",
	Short: "Capture a URL into the Inbox",
	Long: `Capture a URL into the Inbox. Without --title the page title is fetched,
falling back to a title derived from the host name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		fromClipboard, _ := cmd.Flags().GetBool("clipboard")

		var p share.Provider
		switch {
		case fromClipboard && len(args) > 0:
			return errors.New("give either a URL or --clipboard, not both")
		case fromClipboard:
			p = withTitle(share.Clipboard{}, title)
		case len(args) == 1:
			p = share.Static{URL: args[0], Title: title}
		default:
			return errors.New("a URL argument or --clipboard is required")
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.lib.Capture(cmd.Context(), p)
		if err != nil {
			return err
		}
		printItem(cmd.OutOrStdout(), "Added to", item)

		status, err := a.lib.InboxStatus(cmd.Context())
		if err == nil && status.NearCapacity {
			cmd.PrintErrf("Inbox is at %d/%d, time to triage.\n", status.Count, status.Max)
		}
		return nil
	},
}

// withTitle overrides the title a provider reports, when title is set.
func withTitle(p share.Provider, title string) share.Provider {
	if title == "" {
		return p
	}
	return share.ProviderFunc(func(ctx context.Context) (share.Shared, error) {
		s, err := p.Extract(ctx)
		if err != nil {
			return s, err
		}
		s.Title = title
		return s, nil
	})
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringP("title", "t", "", "Title to store instead of fetching one")
	addCmd.Flags().BoolP("clipboard", "c", false, "Capture the first URL found on the clipboard")
}
