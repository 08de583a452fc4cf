package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BillingPeriod is the month a billing column tracks.
type BillingPeriod struct {
	Year  int
	Month time.Month
}

// String renders the period as YYYY-MM.
func (p BillingPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p is earlier than o.
func (p BillingPeriod) Before(o BillingPeriod) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// monthNames maps Indonesian and English month names and abbreviations.
var monthNames = map[string]time.Month{
	"januari": time.January, "january": time.January, "jan": time.January,
	"februari": time.February, "february": time.February, "feb": time.February, "peb": time.February,
	"maret": time.March, "march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May, "may": time.May,
	"juni": time.June, "june": time.June, "jun": time.June,
	"juli": time.July, "july": time.July, "jul": time.July,
	"agustus": time.August, "august": time.August, "agu": time.August, "ags": time.August,
	"agt": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"oktober": time.October, "october": time.October, "okt": time.October, "oct": time.October,
	"november": time.November, "nopember": time.November, "nov": time.November, "nop": time.November,
	"desember": time.December, "december": time.December, "des": time.December, "dec": time.December,
}

var (
	namedPeriodPattern = regexp.MustCompile(`(?i)\b([a-z]+)[\s\-/.']+(\d{4})\b`)
	monthYearPattern   = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{4})$`)
	yearMonthPattern   = regexp.MustCompile(`^(\d{4})[/\-.](\d{1,2})$`)
	minYear, maxYear   = 2000, 2100
)

// ParseBillingPeriod extracts a month and year from a column header such as
// "Januari 2024", "Tagihan Jan-2024", "03/2024" or "2024-03".
func ParseBillingPeriod(header string) (BillingPeriod, bool) {
	h := strings.TrimSpace(header)
	if h == "" {
		return BillingPeriod{}, false
	}

	if m := monthYearPattern.FindStringSubmatch(h); m != nil {
		return numericPeriod(m[2], m[1])
	}
	if m := yearMonthPattern.FindStringSubmatch(h); m != nil {
		return numericPeriod(m[1], m[2])
	}

	for _, m := range namedPeriodPattern.FindAllStringSubmatch(h, -1) {
		month, ok := monthNames[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		year, _ := strconv.Atoi(m[2])
		if year < minYear || year > maxYear {
			continue
		}
		return BillingPeriod{Year: year, Month: month}, true
	}
	return BillingPeriod{}, false
}

func numericPeriod(yearStr, monthStr string) (BillingPeriod, bool) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	if month < 1 || month > 12 || year < minYear || year > maxYear {
		return BillingPeriod{}, false
	}
	return BillingPeriod{Year: year, Month: time.Month(month)}, true
}

// BillingColumn is a sheet column whose header encodes a billing period.
type BillingColumn struct {
	Header string
	Index  int
	Period BillingPeriod
}

// BillingColumns returns the headers that parse as billing periods,
// ordered by period and then by column position.
func BillingColumns(headers []string) []BillingColumn {
	var cols []BillingColumn
	for i, h := range headers {
		if p, ok := ParseBillingPeriod(h); ok {
			cols = append(cols, BillingColumn{Header: h, Index: i, Period: p})
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].Period != cols[j].Period {
			return cols[i].Period.Before(cols[j].Period)
		}
		return cols[i].Index < cols[j].Index
	})
	return cols
}

// BillingStatus counts filled (paid) and empty (unpaid) cells in one billing column.
type BillingStatus struct {
	Column BillingColumn
	Paid   int
	Unpaid int
}
