package availability

import (
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/dates"
)

type DayStatus string

const (
	StatusPast        DayStatus = "past"
	StatusBooked      DayStatus = "booked"
	StatusManualBlock DayStatus = "manual_block"
	StatusAvailable   DayStatus = "available"
)

// DayRecord is the computed calendar view of a single day. Exactly one status
// applies; Price is set only for available days and Comment only for manually
// blocked days whose block carries a comment.
type DayRecord struct {
	Date    time.Time
	Status  DayStatus
	Price   *int64
	Comment *string
}

// MonthInputs is a consistent snapshot of the three data sources the resolver
// reconciles, plus the observation time for the past cutoff.
type MonthInputs struct {
	Now       time.Time
	BasePrice int64
	Confirmed []dates.Range
	Blocks    []ManualBlock
	Rules     []pricing.Rule
}

// ResolveMonth computes one DayRecord per calendar day of the month, ascending.
// Statuses form a priority chain evaluated top to bottom per day: past wins
// over everything, confirmed bookings over manual blocks, and price is only
// resolved for days that end up available.
func ResolveMonth(year int, month time.Month, in MonthInputs) []DayRecord {
	today := dates.Today(in.Now)
	occupied := booking.OccupiedDays(in.Confirmed)
	comments := blockComments(in.Blocks)

	days := dates.MonthDays(year, month)
	records := make([]DayRecord, 0, len(days))
	for _, d := range days {
		rec := DayRecord{Date: d, Status: StatusAvailable}
		switch {
		case d.Before(today):
			rec.Status = StatusPast
		case contains(occupied, d):
			rec.Status = StatusBooked
		default:
			if comment, blocked := comments[d]; blocked {
				rec.Status = StatusManualBlock
				if comment != "" {
					rec.Comment = &comment
				}
			} else {
				price := pricing.ResolvePrice(d, in.BasePrice, in.Rules)
				rec.Price = &price
			}
		}
		records = append(records, rec)
	}
	return records
}

func blockComments(blocks []ManualBlock) map[time.Time]string {
	out := make(map[time.Time]string, len(blocks))
	for _, b := range blocks {
		out[dates.Day(b.Date)] = b.Comment
	}
	return out
}

func contains(set map[time.Time]struct{}, d time.Time) bool {
	_, ok := set[d]
	return ok
}
