// Package pricing computes rental fees and applies staff discounts.
package pricing

import (
	"errors"
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/bundle"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/gallery"

	"github.com/shopspring/decimal"
)

var ErrUnknownRoom = errors.New("unknown room")

type RoomLookup interface {
	Room(id string) (*entity.Room, bool)
}

// Breakdown amounts are whole KRW.
type Breakdown struct {
	DurationHours  float64 `json:"duration_hours"`
	HourlyFee      int64   `json:"hourly_fee"`
	RentalFee      int64   `json:"rental_fee"`
	EquipmentFee   int64   `json:"equipment_fee"`
	TotalFee       int64   `json:"total_fee"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountAmount int64   `json:"discount_amount"`
	FinalFee       int64   `json:"final_fee"`
}

func (b *Breakdown) applyDiscount(d Discount) {
	b.DiscountRate = d.RatePct
	b.DiscountAmount = d.Amount
	b.FinalFee = b.TotalFee - d.Amount
}

// EquipmentTable maps an item code to its flat surcharge.
type EquipmentTable map[string]int64

func DefaultEquipment() map[entity.RoomCategory]EquipmentTable {
	return map[entity.RoomCategory]EquipmentTable{
		entity.CategoryLecture: {
			"projector":    10000,
			"microphone":   5000,
			"sound_system": 10000,
		},
		entity.CategoryStudio: {
			"lighting": 20000,
			"backdrop": 10000,
			"speaker":  5000,
		},
	}
}

type Engine struct {
	rooms     RoomLookup
	gallery   *gallery.Generator
	equipment map[entity.RoomCategory]EquipmentTable
}

func NewEngine(rooms RoomLookup, gen *gallery.Generator, equipment map[entity.RoomCategory]EquipmentTable) *Engine {
	return &Engine{rooms: rooms, gallery: gen, equipment: equipment}
}

// EquipmentFor returns the surcharge table of a room category, nil when the
// category rents no equipment.
func (e *Engine) EquipmentFor(category entity.RoomCategory) EquipmentTable {
	return e.equipment[category]
}

func (e *Engine) room(id string) (*entity.Room, error) {
	room, ok := e.rooms.Room(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoom, id)
	}
	return room, nil
}

// base computes the undiscounted fee of one session.
func (e *Engine) base(s entity.RentalRequest) (Breakdown, *entity.Room, error) {
	room, err := e.room(s.RoomID)
	if err != nil {
		return Breakdown{}, nil, err
	}
	if room.IsGallery() {
		b, err := e.galleryBase(s)
		return b, room, err
	}

	iv, err := calendar.ParseInterval(s.StartTime, s.EndTime)
	if err != nil {
		return Breakdown{}, nil, err
	}
	hours := decimal.NewFromInt(int64(iv.Minutes())).Div(decimal.NewFromInt(60)).Round(2)
	rental := decimal.NewFromInt(room.HourlyFee).Mul(hours).Round(0).IntPart()

	var equipment int64
	table := e.equipment[room.Category]
	for _, item := range s.Equipment {
		equipment += table[item]
	}

	total := rental + equipment
	return Breakdown{
		DurationHours: hours.InexactFloat64(),
		HourlyFee:     room.HourlyFee,
		RentalFee:     rental,
		EquipmentFee:  equipment,
		TotalFee:      total,
		FinalFee:      total,
	}, room, nil
}

// galleryBase bills per day. A consolidated row is billed for its whole
// period, using the stored day counts when present.
func (e *Engine) galleryBase(s entity.RentalRequest) (Breakdown, error) {
	rates := e.gallery.Rates()

	var fee int64
	switch {
	case s.IsPrepDay:
		fee = 0
	case s.SpansGalleryPeriod():
		weekdays, saturdays := s.GalleryWeekdayCount, s.GallerySaturdayCount
		if weekdays == 0 && saturdays == 0 {
			stats, err := e.gallery.ComputeStats(s.GalleryStartDate, s.GalleryEndDate)
			if err != nil {
				return Breakdown{}, err
			}
			weekdays, saturdays = stats.WeekdayCount, stats.SaturdayCount
		}
		fee = int64(weekdays)*rates.Weekday + int64(saturdays)*rates.Saturday
	default:
		d, err := calendar.ParseDate(s.Date)
		if err != nil {
			return Breakdown{}, err
		}
		fee = rates.DayFee(d.Weekday())
	}
	return Breakdown{RentalFee: fee, TotalFee: fee, FinalFee: fee}, nil
}

// SessionFees prices a single session. Bundled sessions and gallery sessions
// never carry their own discount.
func (e *Engine) SessionFees(s entity.RentalRequest) (Breakdown, error) {
	b, room, err := e.base(s)
	if err != nil {
		return Breakdown{}, err
	}
	if s.IsBundled() || room.IsGallery() {
		return b, nil
	}
	b.applyDiscount(NormalizeDiscount(b.TotalFee, StoredDiscount(&s)))
	return b, nil
}

// DiscountCarrier is the session whose discount fields stand for the whole
// bundle: the first one with any discount set, else the first session.
func DiscountCarrier(sessions []entity.RentalRequest) *entity.RentalRequest {
	if len(sessions) == 0 {
		return nil
	}
	for i := range sessions {
		if sessions[i].HasDiscount() {
			return &sessions[i]
		}
	}
	return &sessions[0]
}

func (e *Engine) bundleFees(basis, all []entity.RentalRequest) (Breakdown, error) {
	var out Breakdown
	if len(basis) == 0 {
		return out, nil
	}

	hours := decimal.Zero
	isGallery := false
	for i, s := range basis {
		b, room, err := e.base(s)
		if err != nil {
			return Breakdown{}, err
		}
		if i == 0 {
			out.HourlyFee = room.HourlyFee
			isGallery = room.IsGallery()
		}
		hours = hours.Add(decimal.NewFromFloat(b.DurationHours))
		out.RentalFee += b.RentalFee
		out.EquipmentFee += b.EquipmentFee
		out.TotalFee += b.TotalFee
	}
	out.DurationHours = hours.Round(2).InexactFloat64()
	out.FinalFee = out.TotalFee

	if isGallery {
		return out, nil
	}
	carrier := DiscountCarrier(all)
	out.applyDiscount(NormalizeDiscount(out.TotalFee, StoredDiscount(carrier)))
	return out, nil
}

// BundleFees sums every session and applies the bundle's single discount to
// the sum. Gallery bundles are never discounted.
func (e *Engine) BundleFees(sessions []entity.RentalRequest) (Breakdown, error) {
	return e.bundleFees(sessions, sessions)
}

// PayableBundleFees prices the approved sessions only. When none is
// approved yet it prices the whole bundle and reports an estimate.
func (e *Engine) PayableBundleFees(sessions []entity.RentalRequest) (Breakdown, bool, error) {
	basis, estimate := bundle.FeeBasis(sessions)
	b, err := e.bundleFees(basis, sessions)
	return b, estimate, err
}
