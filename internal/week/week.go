// Package week implements ISO-8601 week arithmetic for the Gantt timeline.
// Week identifiers are strings of the form "2026-W08": ISO year plus a
// zero-padded ISO week number (weeks start Monday; week 1 contains Jan 4).
package week

import (
	"fmt"
	"regexp"
	"time"
)

var idRe = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// Format renders a year/week pair as a week identifier.
func Format(year, wk int) string {
	return fmt.Sprintf("%04d-W%02d", year, wk)
}

// Parse splits a week identifier into its year and week number. ok is
// false for malformed input; Parse never panics or errors beyond that.
func Parse(id string) (year, wk int, ok bool) {
	m := idRe.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, false
	}
	fmt.Sscanf(m[1], "%d", &year)
	fmt.Sscanf(m[2], "%d", &wk)
	return year, wk, true
}

// Valid reports whether id is a well-formed week identifier.
func Valid(id string) bool {
	_, _, ok := Parse(id)
	return ok
}

// Current returns the week identifier containing the given instant.
func Current(now time.Time) string {
	y, w := now.UTC().ISOWeek()
	return Format(y, w)
}

// Compare orders two week identifiers. Lexicographic comparison is
// chronological because the format is zero-padded and fixed-width.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// Label shortens an identifier for display: "2026-W08" -> "W8".
func Label(id string) string {
	_, wk, ok := Parse(id)
	if !ok {
		return id
	}
	return fmt.Sprintf("W%d", wk)
}

// Monday returns the Monday of the identified week. ok is false for
// malformed input.
func Monday(id string) (time.Time, bool) {
	year, wk, ok := Parse(id)
	if !ok {
		return time.Time{}, false
	}
	// Jan 4 is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	dow := int(jan4.Weekday())
	if dow == 0 {
		dow = 7
	}
	return jan4.AddDate(0, 0, -dow+1+(wk-1)*7), true
}

// Advance returns the identifier n weeks after id, crossing year
// boundaries by re-deriving the ISO year/week of the shifted Monday.
// Malformed input is returned unchanged.
func Advance(id string, n int) string {
	monday, ok := Monday(id)
	if !ok {
		return id
	}
	y, w := monday.AddDate(0, 0, n*7).ISOWeek()
	return Format(y, w)
}

// Window returns count consecutive week identifiers starting at start.
func Window(start string, count int) []string {
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Advance(start, i))
	}
	return out
}

// BarSpan maps a row's [startWeek, endWeek] range onto the visible window
// columns. Ranges extending outside the window clip to the first/last
// column; a range entirely past the window yields span 0.
func BarSpan(weeks []string, startWeek, endWeek string) (start, span int) {
	if len(weeks) == 0 {
		return 0, 0
	}
	startIdx := -1
	endIdx := -1
	for i, w := range weeks {
		if startIdx == -1 && Compare(w, startWeek) >= 0 {
			startIdx = i
		}
		if endIdx == -1 && Compare(w, endWeek) >= 0 {
			endIdx = i
		}
	}
	effectiveStart := startIdx
	if startIdx == -1 {
		if Compare(startWeek, weeks[0]) < 0 {
			effectiveStart = 0
		} else {
			effectiveStart = len(weeks)
		}
	}
	effectiveEnd := endIdx
	if endIdx == -1 {
		effectiveEnd = len(weeks) - 1
	}
	if effectiveStart >= len(weeks) {
		return 0, 0
	}
	span = effectiveEnd - effectiveStart + 1
	if span < 1 {
		span = 1
	}
	return effectiveStart, span
}
