package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Inbox capacity and item counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		status, err := a.lib.InboxStatus(cmd.Context())
		if err != nil {
			return err
		}
		counts, err := a.lib.Counts(cmd.Context())
		if err != nil {
			return err
		}
		return printStatus(cmd.OutOrStdout(), status, counts)
	},
}

func printStatus(w io.Writer, status inbox.Status, counts map[model.State]int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for _, st := range model.States {
		if st == model.StateInbox {
			fmt.Fprintf(tw, "%s\t%d/%d\t%s\n", st.Label(), status.Count, status.Max, capacityNote(status))
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t\n", st.Label(), counts[st])
	}
	return tw.Flush()
}

func capacityNote(s inbox.Status) string {
	switch {
	case s.Full:
		return "full: triage before adding more"
	case s.NearCapacity:
		return fmt.Sprintf("almost full: %d left", s.Remaining)
	}
	return fmt.Sprintf("%d left", s.Remaining)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
