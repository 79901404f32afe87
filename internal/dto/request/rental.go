package request

// Applicant holds the contact details every submission carries.
type Applicant struct {
	ApplicantName  string `json:"applicant_name" validate:"required,max=50"`
	ApplicantPhone string `json:"applicant_phone" validate:"required,min=9,max=20"`
	ApplicantEmail string `json:"applicant_email" validate:"omitempty,email"`
	Organization   string `json:"organization" validate:"max=100"`
	Purpose        string `json:"purpose" validate:"required,max=500"`
	Headcount      int    `json:"headcount" validate:"min=1,max=500"`
	Pin            string `json:"pin" validate:"required,len=4,numeric"`
}

type CreateRentalRequest struct {
	RoomID    string   `json:"room_id" validate:"required"`
	Date      string   `json:"date" validate:"required,isodate"`
	StartTime string   `json:"start_time" validate:"required,hhmm"`
	EndTime   string   `json:"end_time" validate:"required,hhmm"`
	Equipment []string `json:"equipment" validate:"max=10,dive,required"`
	Applicant
}

type CreateGalleryRentalRequest struct {
	StartDate string `json:"start_date" validate:"required,isodate"`
	EndDate   string `json:"end_date" validate:"required,isodate"`
	Applicant
}

type PinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

type StatusChangeRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// DiscountRequest sets a discount by rate or by amount. Mode may be omitted;
// a positive amount then selects amount mode.
type DiscountRequest struct {
	Mode    string  `json:"mode" validate:"omitempty,oneof=rate amount"`
	RatePct float64 `json:"rate" validate:"min=0,max=100"`
	Amount  int64   `json:"amount" validate:"min=0"`
	Reason  string  `json:"reason" validate:"max=200"`
}

type ListRentalsRequest struct {
	Status string `validate:"omitempty,oneof=received under_review approved rejected cancelled"`
	RoomID string
	From   string `validate:"omitempty,isodate"`
	To     string `validate:"omitempty,isodate"`
	PaginatedRequest
}
