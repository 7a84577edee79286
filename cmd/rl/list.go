package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/search"
)

var listCmd = &cobra.Command{
	Use:   "list [inbox|bookmarks|archive|all]",
	Short: "List items in a state, most recent first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		which := "inbox"
		if len(args) == 1 {
			which = args[0]
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var items []model.Item
		if strings.EqualFold(which, "all") {
			items, err = a.lib.AllItems(ctx)
			items = search.Filter(items, query)
		} else {
			var st model.State
			st, err = model.ParseState(which)
			if err != nil {
				return err
			}
			items, err = a.lib.SearchItems(ctx, st, query)
		}
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items.")
			return nil
		}
		return printItems(cmd.OutOrStdout(), items, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("query", "q", "", "Only list items whose title or URL contains this text")
}
