package conflict

import (
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
)

// Schedule is a candidate weekly class schedule.
type Schedule struct {
	Scope         entity.RoomScope
	DayOfWeek     int
	StartTime     string
	EndTime       string
	EffectiveFrom string
	EffectiveTo   string
}

// ValidateSchedule checks a schedule candidate against existing schedules
// (effective ranges must overlap before weekday and time are compared), then
// against blocks that land on the same weekday inside its effective range.
func ValidateSchedule(c Schedule, schedules []*entity.ClassSchedule, blocks []*entity.Block) (Outcome, error) {
	if c.DayOfWeek < 0 || c.DayOfWeek > 6 {
		return Outcome{}, &calendar.FormatError{Field: "day of week", Value: fmt.Sprint(c.DayOfWeek)}
	}
	iv, err := calendar.ParseInterval(c.StartTime, c.EndTime)
	if err != nil {
		return Outcome{}, err
	}
	eff, err := parseEffective(c.EffectiveFrom, c.EffectiveTo)
	if err != nil {
		return Outcome{}, err
	}
	if eff.from != nil && eff.to != nil && eff.to.Before(*eff.from) {
		return Outcome{}, &calendar.FormatError{Field: "effective range", Value: c.EffectiveFrom + "~" + c.EffectiveTo}
	}

	for _, s := range schedules {
		if !s.Scope.Intersects(c.Scope) {
			continue
		}
		other, err := parseEffective(s.EffectiveFrom, s.EffectiveTo)
		if err != nil || !eff.overlaps(other) {
			continue
		}
		if s.DayOfWeek != c.DayOfWeek {
			continue
		}
		class, err := calendar.ParseInterval(s.StartTime, s.EndTime)
		if err != nil {
			continue
		}
		if class.Overlaps(iv) {
			return scheduleConflict(s), nil
		}
	}

	for _, b := range blocks {
		if !b.Scope.Intersects(c.Scope) {
			continue
		}
		blocked, err := calendar.ParseInterval(b.StartTime, b.EndTime)
		if err != nil || !blocked.Overlaps(iv) {
			continue
		}
		span, err := parseSpan(b.Date, b.EndDate)
		if err != nil {
			continue
		}
		hit := span.anyDay(func(d calendar.Date) bool {
			return int(d.Weekday()) == c.DayOfWeek && eff.contains(d)
		})
		if hit {
			return blockConflict(b), nil
		}
	}

	return ok(), nil
}
