package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/browser"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/picker"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Fuzzy search every item and open the chosen one",
	Long: `Fuzzy search titles across Inbox, Bookmarks and Archive. A single match
is opened directly, several matches open a picker.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		printOnly, _ := cmd.Flags().GetBool("print")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.lib.FindItems(cmd.Context(), query)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No items found for '%s'\n", query)
			return nil
		}

		var selected model.Item
		if len(results) == 1 {
			selected = results[0].Item
		} else {
			final, err := tea.NewProgram(picker.New(results, query)).Run()
			if err != nil {
				return fmt.Errorf("running picker: %w", err)
			}
			p := final.(picker.Picker)
			if p.Cancelled() {
				return nil
			}
			item, ok := p.SelectedItem()
			if !ok {
				return nil
			}
			selected = item
		}

		if printOnly {
			fmt.Fprintln(cmd.OutOrStdout(), selected.URL)
			return nil
		}
		printItem(cmd.OutOrStdout(), "Opening from", selected)
		return browser.Open(selected.URL)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolP("print", "p", false, "Print the URL instead of opening it")
}
