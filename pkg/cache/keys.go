package cache

import "fmt"

// AvailabilityKey addresses the cached slot grid of one room on one day.
func AvailabilityKey(roomID, date string) string {
	return fmt.Sprintf("availability:%s:%s", roomID, date)
}

// AvailabilityPattern matches the cached grids a write may have changed. An
// empty roomID or date matches any value.
func AvailabilityPattern(roomID, date string) string {
	if roomID == "" {
		roomID = "*"
	}
	if date == "" {
		date = "*"
	}
	return fmt.Sprintf("availability:%s:%s", roomID, date)
}
