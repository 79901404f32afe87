package calendar

import "fmt"

// MinutesOfDay parses HH:MM into minutes since midnight. 24:00 is accepted as
// the end of the day.
func MinutesOfDay(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, &FormatError{Field: "time", Value: hhmm}
	}
	h, ok1 := twoDigits(hhmm[0:2])
	m, ok2 := twoDigits(hhmm[3:5])
	if !ok1 || !ok2 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, &FormatError{Field: "time", Value: hhmm}
	}
	return h*60 + m, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IntervalsOverlap is the half-open test a.start < b.end && b.start < a.end.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Interval is a half-open [Start, End) range of minutes of day.
type Interval struct {
	Start int
	End   int
}

// ParseInterval parses a start/end pair and rejects empty or inverted ranges.
func ParseInterval(start, end string) (Interval, error) {
	s, err := MinutesOfDay(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := MinutesOfDay(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, &FormatError{Field: "time range", Value: start + "-" + end}
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) Overlaps(other Interval) bool {
	return IntervalsOverlap(i.Start, i.End, other.Start, other.End)
}

// Within reports whether i lies entirely inside outer.
func (i Interval) Within(outer Interval) bool {
	return i.Start >= outer.Start && i.End <= outer.End
}

func (i Interval) Minutes() int {
	return i.End - i.Start
}

func (i Interval) String() string {
	return FormatMinutes(i.Start) + "-" + FormatMinutes(i.End)
}
