package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export every item to a bookmark HTML or YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		outputPath := ""
		if len(args) == 1 {
			outputPath = args[0]
		} else {
			var err error
			outputPath, err = exporter.DefaultExportPath(format, time.Now())
			if err != nil {
				return err
			}
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.lib.AllItems(cmd.Context())
		if err != nil {
			return err
		}

		data, err := exporter.Export(items, format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", len(items), outputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("format", exporter.FormatHTML, "Export format: html or yaml")
}
