package conflict

import (
	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
)

// Reservation is a candidate session.
type Reservation struct {
	RoomID    string
	Gallery   bool
	Date      string
	StartTime string
	EndTime   string
}

// Existing is the snapshot a reservation is checked against.
type Existing struct {
	Requests  []*entity.RentalRequest
	Blocks    []*entity.Block
	Schedules []*entity.ClassSchedule
}

var wholeDay = calendar.Interval{Start: 0, End: 24 * 60}

// ValidateReservation checks a session candidate against blocks, class
// schedules and occupying requests, in that order.
func ValidateReservation(c Reservation, existing Existing) (Outcome, error) {
	day, err := calendar.ParseDate(c.Date)
	if err != nil {
		return Outcome{}, err
	}
	iv, err := calendar.ParseInterval(c.StartTime, c.EndTime)
	if err != nil {
		return Outcome{}, err
	}

	for _, b := range existing.Blocks {
		if !b.Scope.Covers(c.RoomID) {
			continue
		}
		span, err := parseSpan(b.Date, b.EndDate)
		if err != nil || !span.contains(day) {
			continue
		}
		blocked, err := calendar.ParseInterval(b.StartTime, b.EndTime)
		if err != nil {
			continue
		}
		if c.Gallery && b.IsRange() {
			blocked = wholeDay
		}
		if blocked.Overlaps(iv) {
			return blockConflict(b), nil
		}
	}

	for _, s := range existing.Schedules {
		if !s.Scope.Covers(c.RoomID) || s.DayOfWeek != int(day.Weekday()) {
			continue
		}
		eff, err := parseEffective(s.EffectiveFrom, s.EffectiveTo)
		if err != nil || !eff.contains(day) {
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

	for _, r := range existing.Requests {
		if r.RoomID != c.RoomID || !r.Status.Occupies() {
			continue
		}
		if c.Gallery && r.SpansGalleryPeriod() {
			if r.GalleryPrepDate == day.String() {
				return requestConflict(r), nil
			}
			if in, err := calendar.DateInRange(day.String(), r.GalleryStartDate, r.GalleryEndDate); err == nil && in {
				return requestConflict(r), nil
			}
			continue
		}
		if r.Date != day.String() {
			continue
		}
		taken, err := calendar.ParseInterval(r.StartTime, r.EndTime)
		if err != nil {
			continue
		}
		if taken.Overlaps(iv) {
			return requestConflict(r), nil
		}
	}

	return ok(), nil
}
