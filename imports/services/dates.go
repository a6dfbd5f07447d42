package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dmyRe       = regexp.MustCompile(`^(\d{1,2})[\/\-](\d{1,2})[\/\-](\d{2,4})$`)
	isoRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})(?:[T\s]\d{2}:\d{2}(?::\d{2})?.*)?$`)
	yearMonthRe = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	monthYearRe = regexp.MustCompile(`^(\d{1,2})[\/\-](\d{4})$`)
	ptMonthRe   = regexp.MustCompile(`^([a-zç]{3})[\/\s\-](\d{4})$`)
)

// ptMonths maps the Portuguese 3-letter month abbreviations used in the
// planning sheets ("mar/2024") to month numbers.
var ptMonths = map[string]string{
	"jan": "01", "fev": "02", "mar": "03", "abr": "04",
	"mai": "05", "jun": "06", "jul": "07", "ago": "08",
	"set": "09", "out": "10", "nov": "11", "dez": "12",
}

// excelEpoch is the workbook serial-date base (serial 0 = 1899-12-30).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// fromExcelSerial converts a spreadsheet date serial into an ISO date,
// discarding any fractional (time-of-day) part.
func fromExcelSerial(n float64) string {
	days := int(n)
	return excelEpoch.AddDate(0, 0, days).Format("2006-01-02")
}

// ParseISODate parses a raw cell value into a canonical "YYYY-MM-DD" date.
// Accepted, in priority order: a numeric spreadsheet serial, DD/MM/YYYY or
// DD-MM-YYYY text (2-digit years expanded to 20YY), and literal YYYY-MM-DD.
// Anything else yields nil; a missing date is valid business data.
func ParseISODate(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil && n > 0 {
		iso := fromExcelSerial(n)
		return &iso
	}

	if m := dmyRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		y, _ := strconv.Atoi(year)
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return nil
		}
		iso := fmt.Sprintf("%04d-%02d-%02d", y, month, day)
		return &iso
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		iso := fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		return &iso
	}

	return nil
}

// FirstDayFromMonthText derives a first-of-month date from a free-text month
// reference: "YYYY-MM", "MM/YYYY" or a Portuguese 3-letter month abbreviation
// plus a 4-digit year ("mar/2024"). Returns nil when nothing matches.
func FirstDayFromMonthText(v string) *string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}

	if m := yearMonthRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return nil
		}
		iso := fmt.Sprintf("%s-%02d-01", m[1], month)
		return &iso
	}

	if m := monthYearRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		if month < 1 || month > 12 {
			return nil
		}
		iso := fmt.Sprintf("%s-%02d-01", m[2], month)
		return &iso
	}

	if m := ptMonthRe.FindStringSubmatch(strings.ToLower(s)); m != nil {
		if month, ok := ptMonths[m[1]]; ok {
			iso := fmt.Sprintf("%s-%s-01", m[2], month)
			return &iso
		}
	}

	return nil
}
