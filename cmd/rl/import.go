package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/importer"
	"github.com/nikbrunner/rl/internal/library"
)

var importCmd = &cobra.Command{
	Use:   "import <file.html>",
	Short: "Import links from a Netscape bookmark file into the Inbox",
	Long: `Import links from a browser bookmark export. Links are admitted into the
Inbox in file order until it is full; the rest are counted as rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")

		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		parsed, err := importer.ParseHTML(file)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		parsed = importer.InFolder(parsed, folder)

		links := make([]library.Link, len(parsed))
		for i, l := range parsed {
			links[i] = library.Link{URL: l.URL, Title: l.Title}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.lib.Import(cmd.Context(), links)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d of %d links into the Inbox", len(res.Added), len(links))
		if res.Invalid > 0 {
			fmt.Fprintf(out, ", %d invalid", res.Invalid)
		}
		if res.Rejected > 0 {
			fmt.Fprintf(out, ", %d rejected (Inbox full)", res.Rejected)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("folder", "f", "", "Only import links under this folder path (e.g. \"Bookmarks Bar/Reading\")")
}
