// Package hours resolves the operating windows of a room category on a given day.
package hours

import (
	"fmt"
	"strings"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
)

// StepMinutes is the smallest bookable increment.
const StepMinutes = 30

// MinBookingMinutes is the shortest booking an applicant may request.
const MinBookingMinutes = 60

// OutOfHoursError is returned when a candidate interval does not sit inside a
// single operating window.
type OutOfHoursError struct {
	Date     string
	Interval calendar.Interval
	Reason   string
}

func (e *OutOfHoursError) Error() string {
	return e.Reason
}

// Policy holds the operating windows per category. Lecture rooms and studios
// share one schedule; the gallery has its own.
type Policy struct {
	Standard        []calendar.Interval
	StandardTuesday []calendar.Interval

	GalleryWeekday  []calendar.Interval
	GalleryTuesday  []calendar.Interval
	GallerySaturday []calendar.Interval
}

func mustInterval(start, end string) calendar.Interval {
	iv, err := calendar.ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// DefaultPolicy returns the facility's published opening hours.
func DefaultPolicy() Policy {
	return Policy{
		Standard: []calendar.Interval{mustInterval("10:00", "17:00")},
		StandardTuesday: []calendar.Interval{
			mustInterval("10:00", "17:00"),
			mustInterval("18:00", "21:00"),
		},
		GalleryWeekday:  []calendar.Interval{mustInterval("10:00", "18:00")},
		GalleryTuesday:  []calendar.Interval{mustInterval("10:00", "20:00")},
		GallerySaturday: []calendar.Interval{mustInterval("10:00", "13:00")},
	}
}

// Windows returns the operating windows for a category on a weekday. An
// empty result means the room is closed.
func (p Policy) Windows(category entity.RoomCategory, weekday time.Weekday) []calendar.Interval {
	if category == entity.CategoryGallery {
		switch weekday {
		case time.Sunday:
			return nil
		case time.Saturday:
			return p.GallerySaturday
		case time.Tuesday:
			return p.GalleryTuesday
		default:
			return p.GalleryWeekday
		}
	}

	if weekday == time.Tuesday {
		return p.StandardTuesday
	}
	return p.Standard
}

// WindowsOn is Windows for a calendar date.
func (p Policy) WindowsOn(category entity.RoomCategory, date calendar.Date) []calendar.Interval {
	return p.Windows(category, date.Weekday())
}

// StartOffsets enumerates every StepMinutes start inside the windows that
// leaves room for length minutes before the window closes. A non-positive
// length means one step.
func StartOffsets(windows []calendar.Interval, length int) []int {
	if length <= 0 {
		length = StepMinutes
	}
	var starts []int
	for _, w := range windows {
		for t := w.Start; t+length <= w.End; t += StepMinutes {
			starts = append(starts, t)
		}
	}
	return starts
}

// Check reports whether iv fits entirely inside one window on date, with a
// human-readable reason when it does not.
func (p Policy) Check(category entity.RoomCategory, date calendar.Date, iv calendar.Interval) (bool, string) {
	windows := p.WindowsOn(category, date)
	if len(windows) == 0 {
		return false, fmt.Sprintf("%s is closed on %s (%s)", category, date, date.Weekday())
	}

	for _, w := range windows {
		if iv.Within(w) {
			return true, ""
		}
	}

	labels := make([]string, len(windows))
	for i, w := range windows {
		labels[i] = w.String()
	}
	return false, fmt.Sprintf("%s is outside operating hours on %s (open %s)",
		iv, date, strings.Join(labels, ", "))
}

// Validate is Check returning an *OutOfHoursError on failure.
func (p Policy) Validate(category entity.RoomCategory, date calendar.Date, iv calendar.Interval) error {
	ok, reason := p.Check(category, date, iv)
	if ok {
		return nil
	}
	return &OutOfHoursError{Date: date.String(), Interval: iv, Reason: reason}
}
