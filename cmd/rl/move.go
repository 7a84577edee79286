package main

import (
	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/model"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <inbox|bookmarks|archive>",
	Short: "Move an item to another state",
	Long: `Move an item to another state. With --from the move only happens if the
item is currently in that state. Moving into a full Inbox is refused.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := model.ParseState(args[1])
		if err != nil {
			return err
		}
		fromFlag, _ := cmd.Flags().GetString("from")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		from := item.State
		if fromFlag != "" {
			if from, err = model.ParseState(fromFlag); err != nil {
				return err
			}
		}

		moved, err := a.lib.MoveItem(cmd.Context(), item.ID, from, to)
		if err != nil {
			return err
		}
		printItem(cmd.OutOrStdout(), "Moved to", moved)
		return nil
	},
}

// shortcutCmd builds "rl bookmark <id>" style commands.
func shortcutCmd(use string, to model.State) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: "Move an item to " + to.Label(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			item, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			moved, err := a.lib.MoveTo(cmd.Context(), item.ID, to)
			if err != nil {
				return err
			}
			printItem(cmd.OutOrStdout(), "Moved to", moved)
			return nil
		},
	}
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an item for good",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := a.lib.DeleteItem(cmd.Context(), item.ID); err != nil {
			return err
		}
		printItem(cmd.OutOrStdout(), "Deleted from", item)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().String("from", "", "Expected current state of the item")

	rootCmd.AddCommand(shortcutCmd("bookmark", model.StateBookmark))
	rootCmd.AddCommand(shortcutCmd("archive", model.StateArchive))
	rootCmd.AddCommand(shortcutCmd("inbox", model.StateInbox))
	rootCmd.AddCommand(deleteCmd)
}
