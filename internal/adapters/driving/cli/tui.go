package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/tui"
	"github.com/custodia-labs/leadsheet/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for leadsheet.

Pick a sheet from the menu to browse its records, filter them by category
and name, and page through the results.

Controls:
  ↑/k, ↓/j  - Navigate
  Enter     - Select / apply search
  /         - Search
  Tab       - Cycle category (all, school, non-school)
  ←/h, →/l  - Previous / next page
  r         - Refresh from the spreadsheet
  Esc       - Back / Cancel
  ?         - Help
  q         - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The TUI owns the terminal, so background logging goes nowhere.
	logger.SetOutput(io.Discard)

	if settingsService != nil && scheduler != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Scheduler.Enabled {
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = runScheduler(ctx)
			}()
			defer func() {
				cancel()
				<-done
			}()
		}
	}

	app, err := tui.NewApp(tui.NewPorts(recordService, settingsService, activityService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
