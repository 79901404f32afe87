package conflict

import (
	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
)

// Block is a candidate manual block. EndDate is optional.
type Block struct {
	Scope     entity.RoomScope
	Date      string
	EndDate   string
	StartTime string
	EndTime   string
}

// ValidateBlock checks a block candidate against existing blocks, then
// against class schedules that fall on any day of its date range.
func ValidateBlock(c Block, blocks []*entity.Block, schedules []*entity.ClassSchedule) (Outcome, error) {
	span, err := parseSpan(c.Date, c.EndDate)
	if err != nil {
		return Outcome{}, err
	}
	iv, err := calendar.ParseInterval(c.StartTime, c.EndTime)
	if err != nil {
		return Outcome{}, err
	}

	for _, b := range blocks {
		if !b.Scope.Intersects(c.Scope) {
			continue
		}
		other, err := parseSpan(b.Date, b.EndDate)
		if err != nil || !span.overlaps(other) {
			continue
		}
		blocked, err := calendar.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if blocked.Overlaps(iv) {
			return blockConflict(b), nil
		}
	}

	for _, s := range schedules {
		if !s.Scope.Intersects(c.Scope) {
			continue
		}
		class, err := calendar.ParseInterval(s.StartTime, s.EndTime)
		if err != nil || !class.Overlaps(iv) {
			continue
		}
		eff, err := parseEffective(s.EffectiveFrom, s.EffectiveTo)
		if err != nil {
			continue
		}
		hit := span.anyDay(func(d calendar.Date) bool {
			return int(d.Weekday()) == s.DayOfWeek && eff.contains(d)
		})
		if hit {
			return scheduleConflict(s), nil
		}
	}

	return ok(), nil
}
