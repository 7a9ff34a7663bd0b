package week_test

import (
	"testing"
	"time"

	"axis/internal/week"
)

func TestParseRoundTrip(t *testing.T) {
	year, wk, ok := week.Parse("2026-W08")
	if !ok || year != 2026 || wk != 8 {
		t.Fatalf("parse 2026-W08: got %d %d %v", year, wk, ok)
	}
	if got := week.Format(year, wk); got != "2026-W08" {
		t.Fatalf("format round trip: %s", got)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, id := range []string{"not-a-week", "2026-W8", "2026W08", "26-W08", "2026-W081", ""} {
		if _, _, ok := week.Parse(id); ok {
			t.Fatalf("expected parse failure for %q", id)
		}
	}
}

func TestCurrent(t *testing.T) {
	if got := week.Current(time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)); got != "2026-W08" {
		t.Fatalf("current for 2026-02-20: %s", got)
	}
	// Jan 1 2021 is a Friday and belongs to ISO week 53 of 2020.
	if got := week.Current(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)); got != "2020-W53" {
		t.Fatalf("current for 2021-01-01: %s", got)
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2026-W01", "2026-W02", -1},
		{"2026-W08", "2026-W08", 0},
		{"2026-W01", "2025-W52", 1},
		{"2025-W52", "2026-W01", -1},
	}
	for _, c := range cases {
		if got := week.Compare(c.a, c.b); got != c.want {
			t.Fatalf("compare(%s,%s)=%d want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestAdvanceCrossesYearBoundary(t *testing.T) {
	if got := week.Advance("2025-W52", 1); got != "2026-W01" {
		t.Fatalf("2025-W52 +1: %s", got)
	}
	if got := week.Advance("2026-W01", -1); got != "2025-W52" {
		t.Fatalf("2026-W01 -1: %s", got)
	}
	// 2020 has 53 ISO weeks.
	if got := week.Advance("2020-W53", 1); got != "2021-W01" {
		t.Fatalf("2020-W53 +1: %s", got)
	}
}

func TestAdvanceRoundTrip(t *testing.T) {
	id := week.Current(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	if got := week.Advance(id, 0); got != id {
		t.Fatalf("advance by 0 changed id: %s", got)
	}
	for _, n := range []int{1, 7, 26, 60} {
		if got := week.Advance(week.Advance(id, n), -n); got != id {
			t.Fatalf("advance round trip n=%d: %s", n, got)
		}
	}
}

func TestWindow(t *testing.T) {
	w := week.Window("2026-W51", 4)
	want := []string{"2026-W51", "2026-W52", "2026-W53", "2027-W01"}
	// 2026 has 53 ISO weeks (Jan 1 2026 is a Thursday).
	if len(w) != len(want) {
		t.Fatalf("window length %d", len(w))
	}
	for i := range want {
		if w[i] != want[i] {
			t.Fatalf("window[%d]=%s want %s", i, w[i], want[i])
		}
	}
}

func TestLabel(t *testing.T) {
	if got := week.Label("2026-W08"); got != "W8" {
		t.Fatalf("label: %s", got)
	}
	if got := week.Label("garbage"); got != "garbage" {
		t.Fatalf("label passthrough: %s", got)
	}
}

func TestBarSpan(t *testing.T) {
	weeks := week.Window("2026-W05", 4) // W05..W08

	cases := []struct {
		name                 string
		startWeek, endWeek   string
		wantStart, wantSpan  int
	}{
		{"inside window", "2026-W06", "2026-W07", 1, 2},
		{"clipped left", "2026-W01", "2026-W06", 0, 2},
		{"clipped right", "2026-W07", "2026-W20", 2, 2},
		{"past the window", "2026-W10", "2026-W12", 0, 0},
		{"entirely before", "2026-W01", "2026-W03", 0, 1},
		{"inverted range", "2026-W07", "2026-W05", 2, 1},
	}
	for _, c := range cases {
		start, span := week.BarSpan(weeks, c.startWeek, c.endWeek)
		if start != c.wantStart || span != c.wantSpan {
			t.Fatalf("%s: got (%d,%d) want (%d,%d)", c.name, start, span, c.wantStart, c.wantSpan)
		}
	}
}
