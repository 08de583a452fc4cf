package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <name>...",
	Short: "Classify names as school or non-school",
	Long: `Classify each name with the keyword classifier.

A name is a school when one of the classifier keywords appears in it, such as
SD, SMP, SMA, SMK, MA, Universitas, Politeknik or Sekolah. Matching ignores
case and punctuation.`,
	Example: `  leadsheet classify "SMA Negeri 1 Bandung" "Toko Sinar Jaya"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(classifyCmd)
}

type classifyResultJSON struct {
	Name   string `json:"name"`
	School bool   `json:"school"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("classify: %w", errNotConfigured)
	}

	results := make([]classifyResultJSON, 0, len(args))
	for _, name := range args {
		results = append(results, classifyResultJSON{Name: name, School: recordService.Classify(name)})
	}

	if classifyJSON {
		return printJSON(cmd, results)
	}

	width := 0
	for _, r := range results {
		if n := len([]rune(r.Name)); n > width {
			width = n
		}
	}
	for _, r := range results {
		label := "non-school"
		if r.School {
			label = "school"
		}
		cmd.Printf("%s  %s\n", padRight(strings.TrimSpace(r.Name), width), label)
	}
	return nil
}
