package availability_test

import (
	"testing"
	"time"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/listings"
	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/dates"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) dates.Range {
	t.Helper()
	r, err := dates.NewRange(start, end)
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}
	return r
}

func mustRule(t *testing.T, id string, start, end time.Time, price int64) pricing.Rule {
	t.Helper()
	rule, err := pricing.NewRule(pricing.RuleID(id), listings.ListingID("lst-1"), start, end, price, day(1))
	if err != nil {
		t.Fatalf("NewRule failed: %v", err)
	}
	return rule
}

// The reference June scenario: base price 5000, a seasonal rule for the whole
// month at 4000, a surge rule June 10-15 at 6000, a confirmed booking June
// 12-14 and a commented manual block on June 20, observed on June 5.
func referenceInputs(t *testing.T) availability.MonthInputs {
	t.Helper()
	return availability.MonthInputs{
		Now:       time.Date(2025, time.June, 5, 14, 30, 0, 0, time.UTC),
		BasePrice: 5000,
		Confirmed: []dates.Range{mustRange(t, day(12), day(14))},
		Blocks: []availability.ManualBlock{
			availability.NewBlock("lst-1", day(20), "maintenance", day(1)),
		},
		Rules: []pricing.Rule{
			mustRule(t, "season", day(1), day(30), 4000),
			mustRule(t, "surge", day(10), day(15), 6000),
		},
	}
}

func recordFor(t *testing.T, records []availability.DayRecord, d time.Time) availability.DayRecord {
	t.Helper()
	for _, rec := range records {
		if rec.Date.Equal(d) {
			return rec
		}
	}
	t.Fatalf("no record for %v", d)
	return availability.DayRecord{}
}

func TestResolveMonthReferenceScenario(t *testing.T) {
	t.Parallel()

	records := availability.ResolveMonth(2025, time.June, referenceInputs(t))
	if len(records) != 30 {
		t.Fatalf("resolved %d days, want 30", len(records))
	}

	cases := []struct {
		name      string
		day       int
		status    availability.DayStatus
		price     int64
		noPrice   bool
		comment   string
		noComment bool
	}{
		{name: "day before today is past", day: 4, status: availability.StatusPast, noPrice: true, noComment: true},
		{name: "first of month is past", day: 1, status: availability.StatusPast, noPrice: true, noComment: true},
		{name: "today is available at season price", day: 5, status: availability.StatusAvailable, price: 4000, noComment: true},
		{name: "pre-surge day uses season rule", day: 9, status: availability.StatusAvailable, price: 4000, noComment: true},
		{name: "surge day uses latest-start rule", day: 10, status: availability.StatusAvailable, price: 6000, noComment: true},
		{name: "check-in day is booked", day: 12, status: availability.StatusBooked, noPrice: true, noComment: true},
		{name: "middle of stay is booked", day: 13, status: availability.StatusBooked, noPrice: true, noComment: true},
		{name: "checkout day is free and priced", day: 14, status: availability.StatusAvailable, price: 6000, noComment: true},
		{name: "surge end day", day: 15, status: availability.StatusAvailable, price: 6000, noComment: true},
		{name: "after surge back to season", day: 16, status: availability.StatusAvailable, price: 4000, noComment: true},
		{name: "manual block carries comment", day: 20, status: availability.StatusManualBlock, noPrice: true, comment: "maintenance"},
		{name: "end of month at season price", day: 30, status: availability.StatusAvailable, price: 4000, noComment: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := recordFor(t, records, day(tc.day))
			if rec.Status != tc.status {
				t.Fatalf("status = %q, want %q", rec.Status, tc.status)
			}
			if tc.noPrice {
				if rec.Price != nil {
					t.Fatalf("price = %d, want nil", *rec.Price)
				}
			} else {
				if rec.Price == nil || *rec.Price != tc.price {
					t.Fatalf("price = %v, want %d", rec.Price, tc.price)
				}
			}
			if tc.noComment {
				if rec.Comment != nil {
					t.Fatalf("comment = %q, want nil", *rec.Comment)
				}
			} else if rec.Comment == nil || *rec.Comment != tc.comment {
				t.Fatalf("comment = %v, want %q", rec.Comment, tc.comment)
			}
		})
	}
}

func TestResolveMonthPastWinsOverEverything(t *testing.T) {
	t.Parallel()

	in := referenceInputs(t)
	// Observe from July: every June day is past, bookings and blocks included.
	in.Now = time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	records := availability.ResolveMonth(2025, time.June, in)
	for _, rec := range records {
		if rec.Status != availability.StatusPast {
			t.Fatalf("day %v status = %q, want past", rec.Date, rec.Status)
		}
		if rec.Price != nil || rec.Comment != nil {
			t.Fatalf("past day %v carries price or comment", rec.Date)
		}
	}
}

func TestResolveMonthBookedWinsOverBlock(t *testing.T) {
	t.Parallel()

	in := referenceInputs(t)
	// Block a day inside the confirmed stay: booked must win.
	in.Blocks = append(in.Blocks, availability.NewBlock("lst-1", day(13), "", day(1)))

	records := availability.ResolveMonth(2025, time.June, in)
	rec := recordFor(t, records, day(13))
	if rec.Status != availability.StatusBooked {
		t.Fatalf("status = %q, want booked", rec.Status)
	}
}

func TestResolveMonthUncommentedBlock(t *testing.T) {
	t.Parallel()

	in := availability.MonthInputs{
		Now:       day(1),
		BasePrice: 5000,
		Blocks:    []availability.ManualBlock{availability.NewBlock("lst-1", day(8), "   ", day(1))},
	}

	records := availability.ResolveMonth(2025, time.June, in)
	rec := recordFor(t, records, day(8))
	if rec.Status != availability.StatusManualBlock {
		t.Fatalf("status = %q, want manual_block", rec.Status)
	}
	if rec.Comment != nil {
		t.Fatalf("blank comment must normalize to nil, got %q", *rec.Comment)
	}
}

func TestResolveMonthNoRulesUsesBasePrice(t *testing.T) {
	t.Parallel()

	in := availability.MonthInputs{Now: day(1), BasePrice: 5000}
	records := availability.ResolveMonth(2025, time.June, in)
	rec := recordFor(t, records, day(15))
	if rec.Status != availability.StatusAvailable {
		t.Fatalf("status = %q, want available", rec.Status)
	}
	if rec.Price == nil || *rec.Price != 5000 {
		t.Fatalf("price = %v, want 5000", rec.Price)
	}
}
