package main

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/rl/internal/capture"
	"github.com/nikbrunner/rl/internal/logging"
	"github.com/nikbrunner/rl/internal/tui"
)

// runTUI runs the full interactive TUI. Logs go to rl.log next to the data
// file so they do not draw over the screen.
func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	logPath := filepath.Join(filepath.Dir(cfg.Storage.Path), "rl.log")
	defer logging.RotateTo(log, logPath).Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	params := tui.AppParams{
		Context: ctx,
		Library: a.lib,
		Logger:  log,
	}
	if a.fetcher != nil {
		params.Session = capture.NewSession(a.fetcher, cfg.Fetch.Debounce)
	}

	p := tea.NewProgram(tui.NewApp(params), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
