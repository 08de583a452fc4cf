package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	activityLimit int
	activityJSON  bool
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent edits",
	Long:  `Show the most recent writes recorded in the activity sheet, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runActivity,
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "maximum number of entries")
	activityCmd.Flags().BoolVar(&activityJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(activityCmd)
}

type activityJSONEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Sheet     string    `json:"sheet"`
	Row       int       `json:"row,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

func runActivity(cmd *cobra.Command, _ []string) error {
	if activityService == nil {
		return fmt.Errorf("activity: %w", errNotConfigured)
	}

	entries, err := activityService.Recent(cmd.Context(), activityLimit)
	if err != nil {
		return fmt.Errorf("activity: %w", err)
	}

	if activityJSON {
		out := make([]activityJSONEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, activityJSONEntry{
				ID:        e.ID,
				Timestamp: e.Timestamp,
				Actor:     e.Actor,
				Action:    string(e.Action),
				Sheet:     e.SheetKey,
				Row:       e.Row,
				Detail:    e.Detail,
			})
		}
		return printJSON(cmd, out)
	}

	if len(entries) == 0 {
		cmd.Println("No activity recorded.")
		return nil
	}

	now := time.Now()
	for _, e := range entries {
		target := e.SheetKey
		if e.Row > 0 {
			target = fmt.Sprintf("%s#%d", e.SheetKey, e.Row)
		}
		line := fmt.Sprintf("%-16s %-8s %-18s %s",
			humanize.RelTime(e.Timestamp, now, "ago", "from now"), e.Action, target, e.Actor)
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		cmd.Println(line)
	}
	return nil
}
