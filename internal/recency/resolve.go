// Package recency turns free-text "posted N units ago" strings into
// approximate absolute timestamps used for ordering.
package recency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day

	// Fallback is how old a listing is assumed to be when its text cannot be read.
	Fallback = 365 * Day
)

type unit struct {
	keyword string
	size    time.Duration
}

// Order matters: "hour" is checked before "day", "day" before "week", "week" before "month".
var units = []unit{
	{keyword: "hour", size: time.Hour},
	{keyword: "day", size: Day},
	{keyword: "week", size: Week},
	{keyword: "month", size: Month},
}

// Resolve parses text such as "3 days ago" and returns now minus that age.
// Anything it cannot read resolves to one year before now.
func Resolve(text string, now time.Time) time.Time {
	age, ok := Age(text)
	if !ok {
		return now.Add(-Fallback)
	}
	return now.Add(-age)
}

// Age returns the duration described by text and whether it could be read.
func Age(text string) (time.Duration, bool) {
	lower := strings.ToLower(text)
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return 0, false
	}

	for _, u := range units {
		if !strings.Contains(lower, u.keyword) {
			continue
		}
		n, ok := leadingCount(fields[0])
		if !ok {
			return 0, false
		}
		if n > math.MaxInt64/int64(u.size) {
			return 0, false
		}
		return time.Duration(n) * u.size, true
	}
	return 0, false
}

// leadingCount joins every ASCII digit in token, so "30+" reads as 30.
func leadingCount(token string) (int64, bool) {
	var digits strings.Builder
	for _, r := range token {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Describe renders the age of t relative to now in the same "N units ago"
// form Resolve reads back.
func Describe(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := now.Sub(t)
	if age < time.Hour {
		return "1 hour ago"
	}
	switch {
	case age < Day:
		return plural(int(age/time.Hour), "hour")
	case age < Week:
		return plural(int(age/Day), "day")
	case age < Month:
		return plural(int(age/Week), "week")
	default:
		return plural(int(age/Month), "month")
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", word)
	}
	return fmt.Sprintf("%d %ss ago", n, word)
}
