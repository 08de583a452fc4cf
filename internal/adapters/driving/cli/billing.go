package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var billingJSON bool

var billingCmd = &cobra.Command{
	Use:   "billing <sheet>",
	Short: "Summarise monthly payment columns",
	Long: `Count paid and unpaid records for every billing column of a sheet.

Billing columns are headers that name a month, such as "Jan 2024",
"Januari 2024" or "2024-01". A non-empty cell counts as paid.`,
	Args: cobra.ExactArgs(1),
	RunE: runBilling,
}

func init() {
	billingCmd.Flags().BoolVar(&billingJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(billingCmd)
}

type billingJSONRow struct {
	Header string `json:"header"`
	Period string `json:"period"`
	Paid   int    `json:"paid"`
	Unpaid int    `json:"unpaid"`
}

func runBilling(cmd *cobra.Command, args []string) error {
	if billingService == nil {
		return fmt.Errorf("billing: %w", errNotConfigured)
	}

	summary, err := billingService.Summary(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("billing %s: %w", args[0], err)
	}

	if billingJSON {
		out := make([]billingJSONRow, 0, len(summary))
		for _, s := range summary {
			out = append(out, billingJSONRow{
				Header: s.Column.Header,
				Period: s.Column.Period.String(),
				Paid:   s.Paid,
				Unpaid: s.Unpaid,
			})
		}
		return printJSON(cmd, out)
	}

	if len(summary) == 0 {
		cmd.Println("No billing columns found.")
		return nil
	}

	cmd.Printf("%-8s  %-16s  %6s  %6s\n", "PERIOD", "COLUMN", "PAID", "UNPAID")
	for _, s := range summary {
		cmd.Printf("%-8s  %-16s  %6d  %6d\n",
			s.Column.Period, truncate(s.Column.Header, 16), s.Paid, s.Unpaid)
	}
	return nil
}
