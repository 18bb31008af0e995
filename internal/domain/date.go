package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnparseableDate is returned for date tokens in none of the accepted forms.
var ErrUnparseableDate = errors.New("unparseable date")

// DateLayout is the canonical on-disk date form.
const DateLayout = "2006-01-02"

// Accepted input layouts, tried in order. Sources emit 8-digit integers
// (20210915), ISO dates, and occasionally full timestamps.
var dateLayouts = []string{
	DateLayout,
	"20060102",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate converts a raw date token to its canonical ISO form.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnparseableDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
}

// DateTime converts a canonical ISO date back to a time.Time (UTC midnight).
func DateTime(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, date)
	}
	return t, nil
}

// FormatDate renders a time.Time in the canonical ISO form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
