// Package gallery expands an exhibition period into billable daily sessions.
// The gallery bills per calendar day and grants one free preparation day
// before the exhibition opens.
package gallery

import (
	"errors"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/hours"
)

// ErrInvalidPeriod means the period yields no exhibition day at all.
var ErrInvalidPeriod = errors.New("exhibition period has no open days")

// Rates are the flat per-day gallery fees in KRW.
type Rates struct {
	Weekday  int64
	Saturday int64
}

func DefaultRates() Rates {
	return Rates{Weekday: 20000, Saturday: 10000}
}

// DayFee is the fee of one exhibition day. Sundays are free because the
// gallery is closed.
func (r Rates) DayFee(weekday time.Weekday) int64 {
	switch weekday {
	case time.Sunday:
		return 0
	case time.Saturday:
		return r.Saturday
	default:
		return r.Weekday
	}
}

type Session struct {
	Date      string
	StartTime string
	EndTime   string
	IsPrepDay bool
}

type Stats struct {
	PrepDate           string `json:"prep_date"`
	WeekdayCount       int    `json:"weekday_count"`
	SaturdayCount      int    `json:"saturday_count"`
	ExhibitionDayCount int    `json:"exhibition_day_count"`
	TotalFee           int64  `json:"total_fee"`
}

type Generator struct {
	policy hours.Policy
	rates  Rates
}

func NewGenerator(policy hours.Policy, rates Rates) *Generator {
	return &Generator{policy: policy, rates: rates}
}

func (g *Generator) Rates() Rates {
	return g.rates
}

func parsePeriod(startDate, endDate string) (calendar.Date, calendar.Date, error) {
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err := calendar.ParseDate(endDate)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	if end.Before(start) {
		return calendar.Date{}, calendar.Date{}, ErrInvalidPeriod
	}
	return start, end, nil
}

// PrepDate is the day before start, walked back past Sundays.
func PrepDate(start calendar.Date) calendar.Date {
	prep := start.AddDays(-1)
	for prep.Weekday() == time.Sunday {
		prep = prep.AddDays(-1)
	}
	return prep
}

func (g *Generator) session(d calendar.Date, prep bool) (Session, bool) {
	windows := g.policy.WindowsOn(entity.CategoryGallery, d)
	if len(windows) == 0 {
		return Session{}, false
	}
	// The gallery has a single window per day; a session spans all of it.
	return Session{
		Date:      d.String(),
		StartTime: calendar.FormatMinutes(windows[0].Start),
		EndTime:   calendar.FormatMinutes(windows[len(windows)-1].End),
		IsPrepDay: prep,
	}, true
}

// Generate returns the prep session followed by one session per open day of
// [startDate, endDate]. A period made only of Sundays is ErrInvalidPeriod.
func (g *Generator) Generate(startDate, endDate string) ([]Session, error) {
	start, end, err := parsePeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var exhibition []Session
	for d := start; !d.After(end); d = d.AddDays(1) {
		if s, ok := g.session(d, false); ok {
			exhibition = append(exhibition, s)
		}
	}
	if len(exhibition) == 0 {
		return nil, ErrInvalidPeriod
	}

	prep, ok := g.session(PrepDate(start), true)
	if !ok {
		return exhibition, nil
	}
	return append([]Session{prep}, exhibition...), nil
}

// ComputeStats summarises a period for quoting and for the consolidated
// single-row storage format.
func (g *Generator) ComputeStats(startDate, endDate string) (Stats, error) {
	start, end, err := parsePeriod(startDate, endDate)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{PrepDate: PrepDate(start).String()}
	for d := start; !d.After(end); d = d.AddDays(1) {
		switch d.Weekday() {
		case time.Sunday:
			continue
		case time.Saturday:
			stats.SaturdayCount++
		default:
			stats.WeekdayCount++
		}
		stats.TotalFee += g.rates.DayFee(d.Weekday())
	}
	stats.ExhibitionDayCount = stats.WeekdayCount + stats.SaturdayCount
	if stats.ExhibitionDayCount == 0 {
		return Stats{}, ErrInvalidPeriod
	}
	return stats, nil
}
