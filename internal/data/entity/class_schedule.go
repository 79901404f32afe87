package entity

// ClassSchedule is a weekly recurring exclusion such as a standing class.
type ClassSchedule struct {
	BaseSimple
	Scope         RoomScope `db:"room_id"`
	DayOfWeek     int       `db:"day_of_week"` // 0 = Sunday
	StartTime     string    `db:"start_time"`
	EndTime       string    `db:"end_time"`
	Title         string    `db:"title"`
	EffectiveFrom string    `db:"effective_from"`
	EffectiveTo   string    `db:"effective_to"`
}
