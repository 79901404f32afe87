package request

type CreateBlockRequest struct {
	RoomID    string `json:"room_id" validate:"required"`
	Date      string `json:"date" validate:"required,isodate"`
	EndDate   string `json:"end_date" validate:"omitempty,isodate"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Reason    string `json:"reason" validate:"max=200"`
}

type CreateScheduleRequest struct {
	RoomID        string `json:"room_id" validate:"required"`
	DayOfWeek     *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime     string `json:"start_time" validate:"required,hhmm"`
	EndTime       string `json:"end_time" validate:"required,hhmm"`
	Title         string `json:"title" validate:"required,max=100"`
	EffectiveFrom string `json:"effective_from" validate:"omitempty,isodate"`
	EffectiveTo   string `json:"effective_to" validate:"omitempty,isodate"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
