// Package availability builds the bookable slot grid of a room on one day from
// a caller-supplied snapshot of requests, manual blocks and class schedules.
package availability

import (
	"errors"
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/hours"
)

const DefaultSlotMinutes = 60

var ErrUnknownRoom = errors.New("unknown room")

type ReasonCode string

const (
	ReasonPastDate    ReasonCode = "PAST_DATE"
	ReasonClosed      ReasonCode = "CLOSED"
	ReasonFullyBooked ReasonCode = "FULLY_BOOKED"
)

// Source identifies what made a slot unavailable.
type Source string

const (
	SourceRequest  Source = "request"
	SourceBlock    Source = "block"
	SourceSchedule Source = "schedule"
)

type RoomLookup interface {
	Room(id string) (*entity.Room, bool)
}

// Snapshot is everything the engine may look at. Callers should pre-filter
// it by room and date when volumes grow.
type Snapshot struct {
	Requests  []*entity.RentalRequest
	Blocks    []*entity.Block
	Schedules []*entity.ClassSchedule
}

type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	BlockedBy Source `json:"blocked_by,omitempty"`
}

type Result struct {
	RoomID         string     `json:"room_id"`
	Date           string     `json:"date"`
	Slots          []Slot     `json:"slots"`
	TotalCount     int        `json:"total_count"`
	AvailableCount int        `json:"available_count"`
	// StartTimes lists the half-hour starts where the shortest booking fits.
	StartTimes     []string   `json:"start_times"`
	ReasonCode     ReasonCode `json:"reason_code,omitempty"`
	ReasonMessage  string     `json:"reason_message,omitempty"`
}

func (r *Result) FullyBooked() bool {
	return r.ReasonCode == ReasonFullyBooked
}

type Engine struct {
	rooms       RoomLookup
	policy      hours.Policy
	clock       calendar.Clock
	slotMinutes int
}

func NewEngine(rooms RoomLookup, policy hours.Policy, clock calendar.Clock, slotMinutes int) *Engine {
	if slotMinutes <= 0 || slotMinutes%hours.StepMinutes != 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return &Engine{
		rooms:       rooms,
		policy:      policy,
		clock:       clock,
		slotMinutes: slotMinutes,
	}
}

type busy struct {
	interval calendar.Interval
	source   Source
}

var wholeDay = calendar.Interval{Start: 0, End: 24 * 60}

// Compute returns the slot grid for roomID on date. Lack of availability is a
// normal result; only malformed input produces an error.
func (e *Engine) Compute(roomID, date string, snap Snapshot) (*Result, error) {
	room, ok := e.rooms.Room(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, roomID)
	}
	day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}

	result := &Result{RoomID: roomID, Date: day.String(), Slots: []Slot{}, StartTimes: []string{}}

	if day.Before(calendar.Today(e.clock)) {
		result.ReasonCode = ReasonPastDate
		result.ReasonMessage = "date is in the past"
		return result, nil
	}

	windows := e.policy.WindowsOn(room.Category, day)
	if len(windows) == 0 {
		result.ReasonCode = ReasonClosed
		result.ReasonMessage = fmt.Sprintf("%s is closed on %s", room.Name, day.Weekday())
		return result, nil
	}

	occupied := e.collectBusy(room, day, snap)

	for _, w := range windows {
		for t := w.Start; t+e.slotMinutes <= w.End; t += e.slotMinutes {
			slotIv := calendar.Interval{Start: t, End: t + e.slotMinutes}
			slot := Slot{
				Start:     calendar.FormatMinutes(slotIv.Start),
				End:       calendar.FormatMinutes(slotIv.End),
				Available: true,
			}
			for _, b := range occupied {
				if b.interval.Overlaps(slotIv) {
					slot.Available = false
					slot.BlockedBy = b.source
					break
				}
			}
			if slot.Available {
				result.AvailableCount++
			}
			result.Slots = append(result.Slots, slot)
		}
	}
	result.TotalCount = len(result.Slots)

	for _, t := range hours.StartOffsets(windows, hours.MinBookingMinutes) {
		if free(occupied, calendar.Interval{Start: t, End: t + hours.MinBookingMinutes}) {
			result.StartTimes = append(result.StartTimes, calendar.FormatMinutes(t))
		}
	}

	if result.TotalCount > 0 && result.AvailableCount == 0 {
		result.ReasonCode = ReasonFullyBooked
		result.ReasonMessage = "all slots are booked"
	}
	return result, nil
}

func free(occupied []busy, iv calendar.Interval) bool {
	for _, b := range occupied {
		if b.interval.Overlaps(iv) {
			return false
		}
	}
	return true
}

// collectBusy skips stored records that fail to parse; they were validated on write.
func (e *Engine) collectBusy(room *entity.Room, day calendar.Date, snap Snapshot) []busy {
	var out []busy

	for _, req := range snap.Requests {
		if iv, ok := requestOccupies(req, room, day); ok {
			out = append(out, busy{interval: iv, source: SourceRequest})
		}
	}
	for _, b := range snap.Blocks {
		if iv, ok := blockOccupies(b, room, day); ok {
			out = append(out, busy{interval: iv, source: SourceBlock})
		}
	}
	for _, s := range snap.Schedules {
		if iv, ok := scheduleOccupies(s, room.ID, day); ok {
			out = append(out, busy{interval: iv, source: SourceSchedule})
		}
	}
	return out
}

func requestOccupies(req *entity.RentalRequest, room *entity.Room, day calendar.Date) (calendar.Interval, bool) {
	if req.RoomID != room.ID || !req.Status.Occupies() {
		return calendar.Interval{}, false
	}

	if room.IsGallery() && req.SpansGalleryPeriod() {
		if req.GalleryPrepDate == day.String() {
			return wholeDay, true
		}
		in, err := calendar.DateInRange(day.String(), req.GalleryStartDate, req.GalleryEndDate)
		if err != nil || !in {
			return calendar.Interval{}, false
		}
		return wholeDay, true
	}

	if req.Date != day.String() {
		return calendar.Interval{}, false
	}
	iv, err := calendar.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return calendar.Interval{}, false
	}
	return iv, true
}

func blockOccupies(b *entity.Block, room *entity.Room, day calendar.Date) (calendar.Interval, bool) {
	if !b.Scope.Covers(room.ID) {
		return calendar.Interval{}, false
	}

	if b.IsRange() {
		in, err := calendar.DateInRange(day.String(), b.Date, b.EndDate)
		if err != nil || !in {
			return calendar.Interval{}, false
		}
		if room.IsGallery() {
			return wholeDay, true
		}
	} else if b.Date != day.String() {
		return calendar.Interval{}, false
	}

	iv, err := calendar.ParseInterval(b.StartTime, b.EndTime)
	if err != nil {
		return calendar.Interval{}, false
	}
	return iv, true
}

func scheduleOccupies(s *entity.ClassSchedule, roomID string, day calendar.Date) (calendar.Interval, bool) {
	if !s.Scope.Covers(roomID) || s.DayOfWeek != int(day.Weekday()) {
		return calendar.Interval{}, false
	}
	in, err := calendar.DateInRange(day.String(), s.EffectiveFrom, s.EffectiveTo)
	if err != nil || !in {
		return calendar.Interval{}, false
	}
	iv, err := calendar.ParseInterval(s.StartTime, s.EndTime)
	if err != nil {
		return calendar.Interval{}, false
	}
	return iv, true
}
