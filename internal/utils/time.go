package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/daycounter/internal/constants"
	apperrors "github.com/julianstephens/daycounter/internal/errors"
)

// inputLayouts are tried in order after the "T" separator is normalized to a space.
var inputLayouts = []string{
	constants.DateTimeFormat,
	constants.DateFormat + " " + constants.TimeFormat,
	constants.DateFormat,
}

// ParseDateTime parses YYYY-MM-DD, YYYY-MM-DD HH:MM or YYYY-MM-DD HH:MM:SS
// (a "T" separator is also accepted) as local time. A bare date is local midnight.
func ParseDateTime(text string) (time.Time, error) {
	return ParseDateTimeInLocation(text, time.Local)
}

// ParseDateTimeInLocation is ParseDateTime with an explicit location.
func ParseDateTimeInLocation(text string, loc *time.Location) (time.Time, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "T", " ")

	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (%s)", apperrors.ErrInvalidFormat, strings.TrimSpace(text), constants.InputFormatHint)
}

// FormatDateForDisplay renders t as 12OCT, or 12OCT2022 when t's year differs
// from the current local year.
func FormatDateForDisplay(t time.Time) string {
	return FormatDateForDisplayAt(t, time.Now())
}

// FormatDateForDisplayAt is FormatDateForDisplay with an explicit "now".
func FormatDateForDisplayAt(t, now time.Time) string {
	t = t.Local()
	day := fmt.Sprintf("%02d%s", t.Day(), strings.ToUpper(t.Format("Jan")))
	if t.Year() != now.Local().Year() {
		return fmt.Sprintf("%s%d", day, t.Year())
	}
	return day
}

// FormatStartForDisplay renders a start instant as shown in the Start column.
func FormatStartForDisplay(t, now time.Time) string {
	return FormatDateForDisplayAt(t, now) + " " + t.Local().Format(constants.TimeFormat)
}

// FormatElapsed renders d as "{days}d HH:MM:SS". Negative durations render as zero.
func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	days := total / constants.SecondsPerDay
	rem := total % constants.SecondsPerDay
	return fmt.Sprintf("%dd %02d:%02d:%02d", days, rem/3600, (rem%3600)/60, rem%60)
}

// ElapsedDays returns the number of whole days in d, rounding toward negative
// infinity so that a start even one second in the future yields -1.
func ElapsedDays(d time.Duration) int {
	secs := int64(d / time.Second)
	if d < 0 && d%time.Second != 0 {
		secs--
	}
	days := secs / constants.SecondsPerDay
	if secs < 0 && secs%constants.SecondsPerDay != 0 {
		days--
	}
	return int(days)
}
