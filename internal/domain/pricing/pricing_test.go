package pricing_test

import (
	"errors"
	"testing"
	"time"

	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/pricing"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRule(t *testing.T, id string, start, end time.Time, price int64) pricing.Rule {
	t.Helper()
	rule, err := pricing.NewRule(pricing.RuleID(id), listings.ListingID("lst-1"), start, end, price, time.Now())
	if err != nil {
		t.Fatalf("NewRule failed: %v", err)
	}
	return rule
}

func TestNewRuleValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		price   int64
		wantErr error
	}{
		{name: "valid", start: day(2025, time.June, 1), end: day(2025, time.June, 30), price: 4000},
		{name: "single day", start: day(2025, time.June, 10), end: day(2025, time.June, 10), price: 6000},
		{name: "reversed range", start: day(2025, time.June, 15), end: day(2025, time.June, 10), price: 4000, wantErr: pricing.ErrInvalidRange},
		{name: "zero price", start: day(2025, time.June, 1), end: day(2025, time.June, 30), price: 0, wantErr: pricing.ErrInvalidPrice},
		{name: "negative price", start: day(2025, time.June, 1), end: day(2025, time.June, 30), price: -100, wantErr: pricing.ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := pricing.NewRule("r-1", "lst-1", tc.start, tc.end, tc.price, time.Now())
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("NewRule error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRule failed: %v", err)
			}
		})
	}
}

func TestRuleCoversInclusiveEnds(t *testing.T) {
	t.Parallel()

	rule := mustRule(t, "r-1", day(2025, time.June, 10), day(2025, time.June, 15), 6000)

	if !rule.Covers(day(2025, time.June, 10)) {
		t.Error("start day must be covered")
	}
	if !rule.Covers(day(2025, time.June, 15)) {
		t.Error("end day must be covered")
	}
	if rule.Covers(day(2025, time.June, 9)) || rule.Covers(day(2025, time.June, 16)) {
		t.Error("days outside the range must not be covered")
	}
}

func TestResolvePrice(t *testing.T) {
	t.Parallel()

	const base = int64(5000)
	season := mustRule(t, "season", day(2025, time.June, 1), day(2025, time.June, 30), 4000)
	surge := mustRule(t, "surge", day(2025, time.June, 10), day(2025, time.June, 15), 6000)
	rules := []pricing.Rule{season, surge}

	cases := []struct {
		name string
		day  time.Time
		want int64
	}{
		{name: "no covering rule falls back to base", day: day(2025, time.July, 1), want: 5000},
		{name: "single covering rule", day: day(2025, time.June, 5), want: 4000},
		{name: "latest start wins on overlap", day: day(2025, time.June, 12), want: 6000},
		{name: "surge end day still surged", day: day(2025, time.June, 15), want: 6000},
		{name: "day after surge returns to season", day: day(2025, time.June, 16), want: 4000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := pricing.ResolvePrice(tc.day, base, rules); got != tc.want {
				t.Fatalf("ResolvePrice = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestResolvePriceTieOnEqualStarts(t *testing.T) {
	t.Parallel()

	// Two rules starting the same day: the first covering rule with that
	// start is kept, later ones with an equal start do not replace it.
	a := mustRule(t, "a", day(2025, time.June, 10), day(2025, time.June, 20), 7000)
	b := mustRule(t, "b", day(2025, time.June, 10), day(2025, time.June, 15), 8000)

	got := pricing.ResolvePrice(day(2025, time.June, 12), 5000, []pricing.Rule{a, b})
	if got != 7000 {
		t.Fatalf("ResolvePrice = %d, want 7000", got)
	}
}
