// Package dateutils provides date parsing and week-window arithmetic used
// throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"fjacquet/cashflow-csv/internal/models"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutUS        = "01/02/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "Jan 2, 2006"
)

// CommonFormats is the list of formats tried, in order, when parsing dates
// from bank exports. Bank CSVs are inconsistent, so the list is deliberately
// permissive.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutWithMonth,
	"January 2, 2006",
	DateLayoutUS,
	DateLayoutEuropean,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"2-Jan-2006",
	DateLayoutFull,
	time.RFC3339,
}

var spaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace in a raw date field.
func CleanDateString(dateStr string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts to parse a date string using the common formats.
// Returns the parsed date and the format that matched.
func ParseDate(dateStr string) (models.Date, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return models.DateOf(t), format, nil
		}
	}

	return models.Date{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// StartOfWeek returns the Sunday on or before the given date. Weekly buckets
// are anchored to Sunday, so the offset is simply the weekday number.
func StartOfWeek(d models.Date) models.Date {
	return d.AddDays(-int(d.Weekday()))
}

// EndOfWeek returns the Saturday closing the week that starts at weekStart.
func EndOfWeek(weekStart models.Date) models.Date {
	return weekStart.AddDays(6)
}

// WeeksBetween returns the number of whole weeks from the week containing
// from to the week containing to. Negative when to precedes from's week.
func WeeksBetween(from, to models.Date) int {
	start := StartOfWeek(from)
	end := StartOfWeek(to)
	days := int(end.Time().Sub(start.Time()).Hours() / 24)
	return days / 7
}
