package response

import (
	"time"

	"facility-rental/internal/engine/bundle"
	"facility-rental/internal/engine/gallery"
	"facility-rental/internal/engine/pricing"

	"github.com/google/uuid"
)

type EquipmentItem struct {
	Code string `json:"code"`
	Fee  int64  `json:"fee"`
}

type RoomResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	HourlyFee int64           `json:"hourly_fee"`
	Capacity  int             `json:"capacity"`
	Floor     string          `json:"floor"`
	Equipment []EquipmentItem `json:"equipment,omitempty"`
}

type GalleryPeriod struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	PrepDate      string `json:"prep_date"`
	WeekdayCount  int    `json:"weekday_count"`
	SaturdayCount int    `json:"saturday_count"`
}

type RentalResponse struct {
	ID             uuid.UUID      `json:"id"`
	RoomID         string         `json:"room_id"`
	RoomName       string         `json:"room_name"`
	Date           string         `json:"date"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	ApplicantName  string         `json:"applicant_name"`
	ApplicantPhone string         `json:"applicant_phone"`
	ApplicantEmail string         `json:"applicant_email,omitempty"`
	Organization   string         `json:"organization,omitempty"`
	Purpose        string         `json:"purpose"`
	Headcount      int            `json:"headcount"`
	Equipment      []string       `json:"equipment"`
	Status         string         `json:"status"`
	RejectReason   string         `json:"reject_reason,omitempty"`
	BatchID        *uuid.UUID     `json:"batch_id,omitempty"`
	BatchSeq       int            `json:"batch_seq,omitempty"`
	BatchSize      int            `json:"batch_size,omitempty"`
	IsPrepDay      bool           `json:"is_prep_day,omitempty"`
	Gallery        *GalleryPeriod `json:"gallery,omitempty"`
	DiscountRate   float64        `json:"discount_rate,omitempty"`
	DiscountAmount int64          `json:"discount_amount,omitempty"`
	DiscountReason string         `json:"discount_reason,omitempty"`
	DiscountMode   string         `json:"discount_mode,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

type BundleResponse struct {
	BatchID  uuid.UUID        `json:"batch_id"`
	Summary  bundle.Summary   `json:"summary"`
	Sessions []RentalResponse `json:"sessions"`
}

// FeesResponse is the payable amount of a session or of its whole bundle.
// Estimate is set while no bundled session is approved yet.
type FeesResponse struct {
	pricing.Breakdown
	Bundle   bool `json:"bundle"`
	Estimate bool `json:"estimate"`
}

type RentalDetailResponse struct {
	Rental RentalResponse  `json:"rental"`
	Fees   FeesResponse    `json:"fees"`
	Bundle *BundleResponse `json:"bundle,omitempty"`
}

type GallerySubmitResponse struct {
	BatchID  uuid.UUID        `json:"batch_id"`
	Stats    gallery.Stats    `json:"stats"`
	Sessions []RentalResponse `json:"sessions"`
	Fees     FeesResponse     `json:"fees"`
}

type GalleryQuoteSession struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsPrepDay bool   `json:"is_prep_day"`
	Fee       int64  `json:"fee"`
}

type GalleryQuoteResponse struct {
	Stats    gallery.Stats         `json:"stats"`
	Sessions []GalleryQuoteSession `json:"sessions"`
}

// RentalGroupResponse is one row of the staff listing: a standalone
// request or a whole bundle.
type RentalGroupResponse struct {
	BatchID  *uuid.UUID       `json:"batch_id,omitempty"`
	Summary  bundle.Summary   `json:"summary"`
	Sessions []RentalResponse `json:"sessions"`
}

type StatusChangeResponse struct {
	Updated []RentalResponse `json:"updated"`
	Skipped int              `json:"skipped"`
}
