package entity

import "strings"

// AllRoomsID is the storage form of the all-rooms wildcard.
const AllRoomsID = "all"

// RoomScope names either one room or every room.
type RoomScope struct {
	roomID string
	all    bool
}

func AllRooms() RoomScope {
	return RoomScope{all: true}
}

func SpecificRoom(roomID string) RoomScope {
	return RoomScope{roomID: roomID}
}

// ParseRoomScope converts the stored column value into a scope.
func ParseRoomScope(s string) RoomScope {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllRoomsID) {
		return AllRooms()
	}
	return SpecificRoom(s)
}

func (s RoomScope) IsAll() bool {
	return s.all
}

func (s RoomScope) RoomID() string {
	return s.roomID
}

// Covers reports whether the scope applies to roomID.
func (s RoomScope) Covers(roomID string) bool {
	return s.all || s.roomID == roomID
}

// Intersects reports whether two scopes can refer to the same room.
func (s RoomScope) Intersects(other RoomScope) bool {
	return s.all || other.all || s.roomID == other.roomID
}

func (s RoomScope) String() string {
	if s.all {
		return AllRoomsID
	}
	return s.roomID
}
