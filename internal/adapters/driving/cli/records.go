package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadsheet/internal/core/domain"
	"github.com/custodia-labs/leadsheet/internal/core/ports/driving"
)

var (
	listSearch   string
	listCategory string
	listPage     int
	listPageSize int
	listJSON     bool

	addFields []string
	deleteYes bool
)

var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"rec"},
	Short:   "List and edit sheet records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list <sheet>",
	Short: "List records of a sheet",
	Long: `List one page of a sheet's records.

The category filter runs first, then the search filter, then pagination.
Search is a case-insensitive substring match on the name and every field.

Categories:
  all         every record (default)
  school      names that look like educational institutions
  non-school  everything else`,
	Example: `  leadsheet records list leads --category school --search bandung
  leadsheet records list customers --page 2 --page-size 25 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordsList,
}

var recordsAddCmd = &cobra.Command{
	Use:     "add <sheet>",
	Short:   "Append a record",
	Example: `  leadsheet records add leads -f "Nama Calon Pelanggan=SMK Negeri 2" -f Kota=Garut`,
	Args:    cobra.ExactArgs(1),
	RunE:    runRecordsAdd,
}

var recordsUpdateCmd = &cobra.Command{
	Use:     "update <sheet> <row> <column> <value>",
	Short:   "Overwrite one cell",
	Example: `  leadsheet records update leads 7 Status "Sudah dihubungi"`,
	Args:    cobra.ExactArgs(4),
	RunE:    runRecordsUpdate,
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <sheet> <row>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runRecordsDelete,
}

var recordsRefreshCmd = &cobra.Command{
	Use:   "refresh [sheet]",
	Short: "Re-fetch sheets from the spreadsheet",
	Long:  `Re-fetch one sheet, or every configured sheet when none is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecordsRefresh,
}

func init() {
	recordsListCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by name or field value")
	recordsListCmd.Flags().StringVarP(&listCategory, "category", "c", "all", "all, school or non-school")
	recordsListCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	recordsListCmd.Flags().IntVar(&listPageSize, "page-size", 0, "records per page (default from config)")
	recordsListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	recordsAddCmd.Flags().StringArrayVarP(&addFields, "field", "f", nil, "column=value (repeatable)")
	_ = recordsAddCmd.MarkFlagRequired("field")

	recordsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation")

	recordsCmd.AddCommand(recordsListCmd, recordsAddCmd, recordsUpdateCmd, recordsDeleteCmd, recordsRefreshCmd)
	rootCmd.AddCommand(recordsCmd)
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("records: %w", errNotConfigured)
	}

	category, err := domain.ParseCategory(listCategory)
	if err != nil {
		return err
	}
	if listPageSize < 0 {
		return fmt.Errorf("page size %d: %w", listPageSize, domain.ErrInvalidInput)
	}

	state := domain.NewFilterState(listPageSize).
		WithSearch(listSearch).
		WithCategory(category).
		WithPage(listPage)

	res, err := recordService.List(cmd.Context(), args[0], state)
	if err != nil {
		return fmt.Errorf("list %s: %w", args[0], err)
	}

	if listJSON {
		return printJSON(cmd, toRecordList(res, recordService.Classify))
	}
	printRecordTable(cmd, res, recordService.Classify, time.Now())
	return nil
}

// recordJSON mirrors the HTTP API's record shape.
type recordJSON struct {
	Row    int               `json:"row"`
	Name   string            `json:"name"`
	School bool              `json:"school"`
	Fields map[string]string `json:"fields"`
}

type recordListJSON struct {
	Sheet      string       `json:"sheet"`
	Headers    []string     `json:"headers"`
	Records    []recordJSON `json:"records"`
	Search     string       `json:"search,omitempty"`
	Category   string       `json:"category"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	TotalCount int          `json:"totalCount"`
	FetchedAt  time.Time    `json:"fetchedAt"`
}

func toRecordList(res *driving.ListResult, isSchool func(string) bool) recordListJSON {
	out := recordListJSON{
		Sheet:      res.Sheet.Key,
		Headers:    res.Headers,
		Records:    make([]recordJSON, 0, len(res.Page.Records)),
		Search:     res.State.SearchTerm,
		Category:   res.State.Category.String(),
		Page:       res.Page.Number,
		PageSize:   res.Page.PageSize,
		TotalPages: res.Page.TotalPages,
		TotalCount: res.Page.TotalCount,
		FetchedAt:  res.FetchedAt,
	}
	for _, r := range res.Page.Records {
		out.Records = append(out.Records, recordJSON{
			Row:    r.Row,
			Name:   r.Name,
			School: isSchool(r.Name),
			Fields: r.Fields,
		})
	}
	return out
}

const (
	rowColWidth   = 5
	tagColWidth   = 4
	nameColWidth  = 32
	fieldColWidth = 18
)

func printRecordTable(cmd *cobra.Command, res *driving.ListResult, isSchool func(string) bool, now time.Time) {
	page := res.Page
	fetched := "never"
	if !res.FetchedAt.IsZero() {
		fetched = humanize.RelTime(res.FetchedAt, now, "ago", "from now")
	}
	cmd.Printf("%s · %s records · page %d/%d · %s · fetched %s\n",
		res.Sheet.DisplayTitle(), humanize.Comma(int64(page.TotalCount)),
		page.Number, page.TotalPages, res.State.Category, fetched)
	if res.State.SearchTerm != "" {
		cmd.Printf("search: %q\n", res.State.SearchTerm)
	}
	cmd.Println()

	if len(page.Records) == 0 {
		cmd.Println("No records found.")
		return
	}

	nameField := res.Sheet.EffectiveNameField()
	extra := make([]string, 0, len(res.Headers))
	for _, h := range res.Headers {
		if h != nameField && h != "" {
			extra = append(extra, h)
		}
	}
	width := terminalWidth(cmd.OutOrStdout())
	room := (width - rowColWidth - tagColWidth - nameColWidth) / (fieldColWidth + 1)
	if room < 0 {
		room = 0
	}
	if len(extra) > room {
		extra = extra[:room]
	}

	var b strings.Builder
	b.WriteString(padRight("ROW", rowColWidth))
	b.WriteString(padRight("", tagColWidth))
	b.WriteString(padRight(truncate(strings.ToUpper(nameField), nameColWidth-1), nameColWidth))
	for _, h := range extra {
		b.WriteString(" " + padRight(truncate(strings.ToUpper(h), fieldColWidth), fieldColWidth))
	}
	cmd.Println(strings.TrimRight(b.String(), " "))

	for _, r := range page.Records {
		b.Reset()
		tag := "[ ]"
		if isSchool(r.Name) {
			tag = "[S]"
		}
		b.WriteString(padRight(strconv.Itoa(r.Row), rowColWidth))
		b.WriteString(padRight(tag, tagColWidth))
		b.WriteString(padRight(truncate(r.Name, nameColWidth-1), nameColWidth))
		for _, h := range extra {
			b.WriteString(" " + padRight(truncate(r.Field(h), fieldColWidth), fieldColWidth))
		}
		cmd.Println(strings.TrimRight(b.String(), " "))
	}

	if page.HasNext() {
		cmd.Printf("\nmore: --page %d\n", page.Number+1)
	}
}

func runRecordsAdd(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("records: %w", errNotConfigured)
	}

	values, err := parseFields(addFields)
	if err != nil {
		return err
	}

	row, err := recordService.AppendRow(cmd.Context(), operator(), args[0], values)
	if err != nil {
		return fmt.Errorf("add to %s: %w", args[0], err)
	}
	if row > 0 {
		cmd.Printf("Added row %d to %s\n", row, args[0])
	} else {
		cmd.Printf("Added record to %s\n", args[0])
	}
	return nil
}

// parseFields turns column=value pairs into a map. Later pairs win.
func parseFields(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q: want column=value: %w", p, domain.ErrInvalidInput)
		}
		values[k] = v
	}
	return values, nil
}

func parseRow(s string) (int, error) {
	row, err := strconv.Atoi(s)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("row %q: %w", s, domain.ErrInvalidInput)
	}
	return row, nil
}

func runRecordsUpdate(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("records: %w", errNotConfigured)
	}

	row, err := parseRow(args[1])
	if err != nil {
		return err
	}

	if err := recordService.UpdateCell(cmd.Context(), operator(), args[0], row, args[2], args[3]); err != nil {
		return fmt.Errorf("update %s row %d: %w", args[0], row, err)
	}
	cmd.Printf("Updated %s row %d: %s\n", args[0], row, args[2])
	return nil
}

func runRecordsDelete(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("records: %w", errNotConfigured)
	}

	row, err := parseRow(args[1])
	if err != nil {
		return err
	}

	if !deleteYes {
		cmd.Printf("Delete row %d of %s? [y/N]: ", row, args[0])
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := recordService.DeleteRow(cmd.Context(), operator(), args[0], row); err != nil {
		return fmt.Errorf("delete %s row %d: %w", args[0], row, err)
	}
	cmd.Printf("Deleted %s row %d\n", args[0], row)
	return nil
}

func runRecordsRefresh(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return fmt.Errorf("records: %w", errNotConfigured)
	}

	if len(args) == 1 {
		snap, err := recordService.Refresh(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("refresh %s: %w", args[0], err)
		}
		cmd.Printf("Refreshed %s: %s records\n", args[0], humanize.Comma(int64(len(snap.Table.Records))))
		return nil
	}

	n, err := recordService.RefreshAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	cmd.Printf("Refreshed %d sheet(s)\n", n)
	return nil
}
