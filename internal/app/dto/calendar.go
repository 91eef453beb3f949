package dto

import (
	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/shared/dates"
)

// CalendarDay is the wire form of one resolved day. Price is present only for
// available days, comment only for commented manual blocks.
type CalendarDay struct {
	Date    string  `json:"date"`
	Status  string  `json:"status"`
	Price   *int64  `json:"price"`
	Comment *string `json:"comment"`
}

func MapCalendarDays(records []availability.DayRecord) []CalendarDay {
	out := make([]CalendarDay, 0, len(records))
	for _, rec := range records {
		out = append(out, CalendarDay{
			Date:    dates.Format(rec.Date),
			Status:  string(rec.Status),
			Price:   rec.Price,
			Comment: rec.Comment,
		})
	}
	return out
}
