package entity

import "github.com/google/uuid"

type RequestStatus string

const (
	StatusReceived    RequestStatus = "received"
	StatusUnderReview RequestStatus = "under_review"
	StatusApproved    RequestStatus = "approved"
	StatusRejected    RequestStatus = "rejected"
	StatusCancelled   RequestStatus = "cancelled"
)

// DefaultPendingStatus is the status of a freshly submitted session.
const DefaultPendingStatus = StatusReceived

func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case StatusReceived, StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled:
		return st, true
	}
	return "", false
}

// IsPending is true while staff have not decided yet.
func (s RequestStatus) IsPending() bool {
	return s == StatusReceived || s == StatusUnderReview
}

// Occupies reports whether a session in this status takes its time slot away
// from the availability grid and from new submissions.
func (s RequestStatus) Occupies() bool {
	return s == StatusReceived || s == StatusApproved
}

func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

// RentalRequest is one stored session.
type RentalRequest struct {
	Base
	RoomID    string `db:"room_id"`
	Date      string `db:"rental_date"` // YYYY-MM-DD
	StartTime string `db:"start_time"`  // HH:MM
	EndTime   string `db:"end_time"`    // HH:MM

	ApplicantName  string `db:"applicant_name"`
	ApplicantPhone string `db:"applicant_phone"`
	ApplicantEmail string `db:"applicant_email"`
	Organization   string `db:"organization"`
	Purpose        string `db:"purpose"`
	Headcount      int    `db:"headcount"`
	PinHash        string `db:"pin_hash"`

	Equipment []string `db:"equipment"`

	Status       RequestStatus `db:"status"`
	RejectReason string        `db:"reject_reason"`

	BatchID   *uuid.UUID `db:"batch_id"`
	BatchSeq  int        `db:"batch_seq"`
	BatchSize int        `db:"batch_size"`

	DiscountRate   float64 `db:"discount_rate"`
	DiscountAmount int64   `db:"discount_amount"`
	DiscountReason string  `db:"discount_reason"`
	// DiscountMode is "rate" or "amount"; empty on rows written before it existed.
	DiscountMode   string  `db:"discount_mode"`

	// Gallery fields. StartDate/EndDate hold the exhibition period; the
	// consolidated single-row format also carries the day counts.
	IsPrepDay            bool   `db:"is_prep_day"`
	GalleryStartDate     string `db:"gallery_start_date"`
	GalleryEndDate       string `db:"gallery_end_date"`
	GalleryPrepDate      string `db:"gallery_prep_date"`
	GalleryWeekdayCount  int    `db:"gallery_weekday_count"`
	GallerySaturdayCount int    `db:"gallery_saturday_count"`
}

func (r *RentalRequest) IsBundled() bool {
	return r.BatchID != nil
}

// HasDiscount reports whether any discount field was filled in by staff.
func (r *RentalRequest) HasDiscount() bool {
	return r.DiscountAmount > 0 || r.DiscountRate > 0 || r.DiscountReason != ""
}

// SpansGalleryPeriod is true for the consolidated gallery format: one row
// standing for a whole exhibition period.
func (r *RentalRequest) SpansGalleryPeriod() bool {
	return !r.IsBundled() && r.GalleryStartDate != "" && r.GalleryEndDate != ""
}
