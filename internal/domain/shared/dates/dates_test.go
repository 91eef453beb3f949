package dates_test

import (
	"errors"
	"testing"
	"time"

	"stayhub/internal/domain/shared/dates"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayTruncation(t *testing.T) {
	t.Parallel()

	in := time.Date(2025, time.June, 12, 17, 45, 3, 0, time.FixedZone("MSK", 3*3600))
	got := dates.Day(in)
	want := day(2025, time.June, 12)
	if !got.Equal(want) {
		t.Fatalf("Day() = %v, want %v", got, want)
	}
}

func TestParseFormatRoundtrip(t *testing.T) {
	t.Parallel()

	parsed, err := dates.Parse("2025-06-12")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !parsed.Equal(day(2025, time.June, 12)) {
		t.Fatalf("Parse() = %v", parsed)
	}
	if got := dates.Format(parsed); got != "2025-06-12" {
		t.Fatalf("Format() = %q", got)
	}

	if _, err := dates.Parse("12.06.2025"); err == nil {
		t.Fatal("Parse accepted a non-ISO date")
	}
}

func TestNewRange(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		nights  int
		wantErr error
	}{
		{name: "two nights", start: day(2025, time.June, 12), end: day(2025, time.June, 14), nights: 2},
		{name: "single night", start: day(2025, time.June, 12), end: day(2025, time.June, 13), nights: 1},
		{name: "zero length", start: day(2025, time.June, 12), end: day(2025, time.June, 12), wantErr: dates.ErrInvalidRange},
		{name: "reversed", start: day(2025, time.June, 14), end: day(2025, time.June, 12), wantErr: dates.ErrInvalidRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, err := dates.NewRange(tc.start, tc.end)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NewRange error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRange failed: %v", err)
			}
			if r.Nights() != tc.nights {
				t.Fatalf("Nights() = %d, want %d", r.Nights(), tc.nights)
			}
		})
	}
}

func TestRangeHalfOpen(t *testing.T) {
	t.Parallel()

	r, err := dates.NewRange(day(2025, time.June, 12), day(2025, time.June, 14))
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}

	if !r.Contains(day(2025, time.June, 12)) {
		t.Error("check-in day must be occupied")
	}
	if !r.Contains(day(2025, time.June, 13)) {
		t.Error("middle day must be occupied")
	}
	if r.Contains(day(2025, time.June, 14)) {
		t.Error("checkout day must stay free")
	}

	got := r.Days()
	if len(got) != 2 {
		t.Fatalf("Days() returned %d days, want 2", len(got))
	}
	if !got[0].Equal(day(2025, time.June, 12)) || !got[1].Equal(day(2025, time.June, 13)) {
		t.Fatalf("Days() = %v", got)
	}
}

func TestRangeOverlaps(t *testing.T) {
	t.Parallel()

	base, _ := dates.NewRange(day(2025, time.June, 10), day(2025, time.June, 15))
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "identical", start: day(2025, time.June, 10), end: day(2025, time.June, 15), want: true},
		{name: "inside", start: day(2025, time.June, 12), end: day(2025, time.June, 13), want: true},
		{name: "overlapping tail", start: day(2025, time.June, 14), end: day(2025, time.June, 20), want: true},
		{name: "touching checkout", start: day(2025, time.June, 15), end: day(2025, time.June, 18), want: false},
		{name: "touching checkin", start: day(2025, time.June, 5), end: day(2025, time.June, 10), want: false},
		{name: "disjoint", start: day(2025, time.June, 20), end: day(2025, time.June, 25), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			other, err := dates.NewRange(tc.start, tc.end)
			if err != nil {
				t.Fatalf("NewRange failed: %v", err)
			}
			if got := base.Overlaps(other); got != tc.want {
				t.Fatalf("Overlaps() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMonthDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{name: "june", year: 2025, month: time.June, want: 30},
		{name: "july", year: 2025, month: time.July, want: 31},
		{name: "february leap", year: 2024, month: time.February, want: 29},
		{name: "february common", year: 2025, month: time.February, want: 28},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			days := dates.MonthDays(tc.year, tc.month)
			if len(days) != tc.want {
				t.Fatalf("MonthDays returned %d days, want %d", len(days), tc.want)
			}
			if !days[0].Equal(day(tc.year, tc.month, 1)) {
				t.Fatalf("first day = %v", days[0])
			}
			if !days[len(days)-1].Equal(day(tc.year, tc.month, tc.want)) {
				t.Fatalf("last day = %v", days[len(days)-1])
			}
		})
	}
}

func TestValidMonth(t *testing.T) {
	t.Parallel()

	valid := [][2]int{{2025, 1}, {2025, 12}, {1, 6}}
	for _, pair := range valid {
		if !dates.ValidMonth(pair[0], pair[1]) {
			t.Errorf("ValidMonth(%d, %d) = false", pair[0], pair[1])
		}
	}
	invalid := [][2]int{{2025, 0}, {2025, 13}, {0, 6}, {-1, 6}}
	for _, pair := range invalid {
		if dates.ValidMonth(pair[0], pair[1]) {
			t.Errorf("ValidMonth(%d, %d) = true", pair[0], pair[1])
		}
	}
}
