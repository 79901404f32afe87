package usecase

import (
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/hours"
)

// roomScope resolves a room ID from a staff request. "all" is the wildcard.
func (e *Engines) roomScope(roomID string) (entity.RoomScope, error) {
	scope := entity.ParseRoomScope(roomID)
	if scope.IsAll() {
		return scope, nil
	}
	if _, ok := e.Catalog.Room(scope.RoomID()); !ok {
		return entity.RoomScope{}, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}
	return scope, nil
}

// alignedInterval parses a staff time range, which must sit on the booking grid.
func alignedInterval(start, end string) (calendar.Interval, error) {
	iv, err := calendar.ParseInterval(start, end)
	if err != nil {
		return calendar.Interval{}, err
	}
	if iv.Start%hours.StepMinutes != 0 || iv.End%hours.StepMinutes != 0 {
		return calendar.Interval{}, fmt.Errorf("%w: times must be on a %d-minute boundary", ErrValidation, hours.StepMinutes)
	}
	return iv, nil
}

// invalidationRoom maps a scope to the cache invalidation room, "" for all.
func invalidationRoom(scope entity.RoomScope) string {
	if scope.IsAll() {
		return ""
	}
	return scope.RoomID()
}
