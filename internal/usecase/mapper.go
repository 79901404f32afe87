package usecase

import (
	"sort"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/dto/response"
	"facility-rental/internal/engine/pricing"
)

func (e *Engines) roomResponse(room *entity.Room) response.RoomResponse {
	res := response.RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Category:  room.Category.String(),
		HourlyFee: room.HourlyFee,
		Capacity:  room.Capacity,
		Floor:     room.Floor,
	}
	table := e.Pricing.EquipmentFor(room.Category)
	for _, code := range sortedCodes(table) {
		res.Equipment = append(res.Equipment, response.EquipmentItem{Code: code, Fee: table[code]})
	}
	return res
}

func (e *Engines) rentalResponse(r *entity.RentalRequest) response.RentalResponse {
	res := response.RentalResponse{
		ID:             r.ID,
		RoomID:         r.RoomID,
		Date:           r.Date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		ApplicantName:  r.ApplicantName,
		ApplicantPhone: r.ApplicantPhone,
		ApplicantEmail: r.ApplicantEmail,
		Organization:   r.Organization,
		Purpose:        r.Purpose,
		Headcount:      r.Headcount,
		Equipment:      r.Equipment,
		Status:         string(r.Status),
		RejectReason:   r.RejectReason,
		BatchID:        r.BatchID,
		BatchSeq:       r.BatchSeq,
		BatchSize:      r.BatchSize,
		IsPrepDay:      r.IsPrepDay,
		DiscountRate:   r.DiscountRate,
		DiscountAmount: r.DiscountAmount,
		DiscountReason: r.DiscountReason,
		DiscountMode:   r.DiscountMode,
		CreatedAt:      r.CreatedAt,
	}
	if res.Equipment == nil {
		res.Equipment = []string{}
	}
	if room, ok := e.Catalog.Room(r.RoomID); ok {
		res.RoomName = room.Name
	}
	if r.GalleryStartDate != "" {
		res.Gallery = &response.GalleryPeriod{
			StartDate:     r.GalleryStartDate,
			EndDate:       r.GalleryEndDate,
			PrepDate:      r.GalleryPrepDate,
			WeekdayCount:  r.GalleryWeekdayCount,
			SaturdayCount: r.GallerySaturdayCount,
		}
	}
	return res
}

func (e *Engines) rentalResponses(rs []*entity.RentalRequest) []response.RentalResponse {
	out := make([]response.RentalResponse, len(rs))
	for i, r := range rs {
		out[i] = e.rentalResponse(r)
	}
	return out
}

func blockResponse(b *entity.Block) response.BlockResponse {
	return response.BlockResponse{
		ID:        b.ID,
		RoomID:    b.Scope.String(),
		Date:      b.Date,
		EndDate:   b.EndDate,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

func scheduleResponse(s *entity.ClassSchedule) response.ScheduleResponse {
	return response.ScheduleResponse{
		ID:            s.ID,
		RoomID:        s.Scope.String(),
		DayOfWeek:     s.DayOfWeek,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Title:         s.Title,
		EffectiveFrom: s.EffectiveFrom,
		EffectiveTo:   s.EffectiveTo,
		CreatedAt:     s.CreatedAt,
	}
}

func values(rs []*entity.RentalRequest) []entity.RentalRequest {
	out := make([]entity.RentalRequest, len(rs))
	for i, r := range rs {
		out[i] = *r
	}
	return out
}

func pointers(rs []entity.RentalRequest) []*entity.RentalRequest {
	out := make([]*entity.RentalRequest, len(rs))
	for i := range rs {
		out[i] = &rs[i]
	}
	return out
}

func sortedCodes(table pricing.EquipmentTable) []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
