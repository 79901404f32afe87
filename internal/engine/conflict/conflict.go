// Package conflict detects collisions between a candidate reservation, block
// or class schedule and the records already stored.
//
// Operating-hours validation must run before these checks so that an
// out-of-hours candidate gets the more specific error.
package conflict

import (
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRequest  Kind = "request"
	KindBlock    Kind = "block"
	KindSchedule Kind = "schedule"
)

// ConflictError identifies the first record that collides with a candidate.
type ConflictError struct {
	Kind    Kind
	ID      uuid.UUID
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Outcome is the result of a check. Only the first conflict is reported.
type Outcome struct {
	OK       bool
	Kind     Kind
	Request  *entity.RentalRequest
	Block    *entity.Block
	Schedule *entity.ClassSchedule
	Message  string
}

func ok() Outcome { return Outcome{OK: true} }

// Err converts a failed outcome into a *ConflictError, nil otherwise.
func (o Outcome) Err() error {
	if o.OK {
		return nil
	}
	e := &ConflictError{Kind: o.Kind, Message: o.Message}
	switch {
	case o.Request != nil:
		e.ID = o.Request.ID
	case o.Block != nil:
		e.ID = o.Block.ID
	case o.Schedule != nil:
		e.ID = o.Schedule.ID
	}
	return e
}

func requestConflict(r *entity.RentalRequest) Outcome {
	return Outcome{
		Kind:    KindRequest,
		Request: r,
		Message: fmt.Sprintf("room %s is already reserved on %s %s-%s", r.RoomID, r.Date, r.StartTime, r.EndTime),
	}
}

func blockConflict(b *entity.Block) Outcome {
	when := b.Date
	if b.IsRange() {
		when = b.Date + "~" + b.EndDate
	}
	msg := fmt.Sprintf("%s is blocked on %s %s-%s", scopeLabel(b.Scope), when, b.StartTime, b.EndTime)
	if b.Reason != "" {
		msg += " (" + b.Reason + ")"
	}
	return Outcome{Kind: KindBlock, Block: b, Message: msg}
}

func scheduleConflict(s *entity.ClassSchedule) Outcome {
	return Outcome{
		Kind:     KindSchedule,
		Schedule: s,
		Message: fmt.Sprintf("%s has the recurring class %q every %s %s-%s",
			scopeLabel(s.Scope), s.Title, weekdayName(s.DayOfWeek), s.StartTime, s.EndTime),
	}
}

func scopeLabel(s entity.RoomScope) string {
	if s.IsAll() {
		return "every room"
	}
	return "room " + s.RoomID()
}

func weekdayName(dow int) string {
	names := [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if dow < 0 || dow > 6 {
		return fmt.Sprintf("day %d", dow)
	}
	return names[dow]
}

// dateSpan is an inclusive date range; To is never before From.
type dateSpan struct {
	From calendar.Date
	To   calendar.Date
}

func parseSpan(from, to string) (dateSpan, error) {
	f, err := calendar.ParseDate(from)
	if err != nil {
		return dateSpan{}, err
	}
	if to == "" {
		return dateSpan{From: f, To: f}, nil
	}
	t, err := calendar.ParseDate(to)
	if err != nil {
		return dateSpan{}, err
	}
	if t.Before(f) {
		return dateSpan{}, &calendar.FormatError{Field: "date range", Value: from + "~" + to}
	}
	return dateSpan{From: f, To: t}, nil
}

func (s dateSpan) overlaps(other dateSpan) bool {
	return calendar.RangesOverlap(&s.From, &s.To, &other.From, &other.To)
}

func (s dateSpan) contains(d calendar.Date) bool {
	return calendar.InRange(d, &s.From, &s.To)
}

// anyDay reports whether some day in the span satisfies fn.
func (s dateSpan) anyDay(fn func(calendar.Date) bool) bool {
	for d := s.From; !d.After(s.To); d = d.AddDays(1) {
		if fn(d) {
			return true
		}
	}
	return false
}

type effective struct {
	from *calendar.Date
	to   *calendar.Date
}

func parseEffective(from, to string) (effective, error) {
	f, err := calendar.OptionalDate(from)
	if err != nil {
		return effective{}, err
	}
	t, err := calendar.OptionalDate(to)
	if err != nil {
		return effective{}, err
	}
	return effective{from: f, to: t}, nil
}

func (e effective) contains(d calendar.Date) bool {
	return calendar.InRange(d, e.from, e.to)
}

func (e effective) overlaps(other effective) bool {
	return calendar.RangesOverlap(e.from, e.to, other.from, other.to)
}
