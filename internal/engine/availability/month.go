package availability

import (
	"time"

	"facility-rental/internal/engine/calendar"
)

// DayVerdict summarises one day of a month calendar.
type DayVerdict struct {
	Date           string     `json:"date"`
	AvailableCount int        `json:"available_count"`
	ReasonCode     ReasonCode `json:"reason_code,omitempty"`
}

// Month computes a verdict for every day of the given month.
func (e *Engine) Month(roomID string, year int, month time.Month, snap Snapshot) ([]DayVerdict, error) {
	first := calendar.Date{Year: year, Month: month, Day: 1}
	days := first.DaysInMonth()

	out := make([]DayVerdict, 0, days)
	for i := 0; i < days; i++ {
		day := first.AddDays(i)
		res, err := e.Compute(roomID, day.String(), snap)
		if err != nil {
			return nil, err
		}
		out = append(out, DayVerdict{
			Date:           res.Date,
			AvailableCount: res.AvailableCount,
			ReasonCode:     res.ReasonCode,
		})
	}
	return out, nil
}
