package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sheetsJSON bool

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List configured sheets",
	Long: `List the sheets configured in config.toml.

Sheets are declared as [sheets.<key>] tables:

  [sheets.leads]
  kind = "leads"
  range = "Leads!A1:H"
  title = "Calon Pelanggan"`,
	RunE: runSheetsList,
}

var sheetsConnectCreds string

var sheetsConnectCmd = &cobra.Command{
	Use:   "connect <spreadsheet-id>",
	Short: "Set the spreadsheet and credentials",
	Long: `Store the Google Sheets document ID and, optionally, a service-account key
file in config.toml. Without a key file application default credentials are
used.`,
	Args: cobra.ExactArgs(1),
	RunE: runSheetsConnect,
}

func init() {
	sheetsCmd.Flags().BoolVar(&sheetsJSON, "json", false, "output as JSON")
	sheetsConnectCmd.Flags().StringVar(&sheetsConnectCreds, "credentials", "", "service-account JSON key file")
	sheetsCmd.AddCommand(sheetsConnectCmd)
	rootCmd.AddCommand(sheetsCmd)
}

type sheetJSON struct {
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Range     string `json:"range"`
	NameField string `json:"nameField"`
}

func runSheetsList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return fmt.Errorf("sheets: %w", errNotConfigured)
	}

	refs, err := settingsService.Sheets()
	if err != nil {
		return err
	}

	if sheetsJSON {
		out := make([]sheetJSON, 0, len(refs))
		for _, ref := range refs {
			out = append(out, sheetJSON{
				Key:       ref.Key,
				Kind:      string(ref.Kind),
				Title:     ref.DisplayTitle(),
				Range:     ref.Range,
				NameField: ref.EffectiveNameField(),
			})
		}
		return printJSON(cmd, out)
	}

	if len(refs) == 0 {
		cmd.Println("No sheets configured.")
		return nil
	}

	cmd.Println("Sheets:")
	for _, ref := range refs {
		cmd.Printf("  %s  %s (%s)\n", padRight(ref.Key, 14), ref.DisplayTitle(), ref.Kind)
		cmd.Printf("  %s  range: %s, name column: %s\n", padRight("", 14), ref.Range, ref.EffectiveNameField())
	}
	return nil
}

func runSheetsConnect(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return fmt.Errorf("sheets: %w", errNotConfigured)
	}

	if err := settingsService.SetSpreadsheet(args[0], sheetsConnectCreds); err != nil {
		return err
	}
	cmd.Printf("Spreadsheet set to %s\n", args[0])
	if sheetsConnectCreds == "" {
		cmd.Println("Using application default credentials.")
	}
	return nil
}
