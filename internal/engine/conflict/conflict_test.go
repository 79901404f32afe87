package conflict

import (
	"testing"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(scope entity.RoomScope, date, end, start, finish string) *entity.Block {
	return &entity.Block{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		Scope:      scope,
		Date:       date,
		EndDate:    end,
		StartTime:  start,
		EndTime:    finish,
		Reason:     "maintenance",
	}
}

func schedule(scope entity.RoomScope, dow int, start, end, from, to string) *entity.ClassSchedule {
	return &entity.ClassSchedule{
		BaseSimple:    entity.BaseSimple{ID: uuid.New()},
		Scope:         scope,
		DayOfWeek:     dow,
		StartTime:     start,
		EndTime:       end,
		Title:         "Calligraphy",
		EffectiveFrom: from,
		EffectiveTo:   to,
	}
}

func TestValidateReservation(t *testing.T) {
	approved := &entity.RentalRequest{
		Base:      entity.Base{ID: uuid.New()},
		RoomID:    "lecture-1",
		Date:      "2026-02-16",
		StartTime: "10:00",
		EndTime:   "12:00",
		Status:    entity.StatusApproved,
	}
	rejected := &entity.RentalRequest{
		Base:      entity.Base{ID: uuid.New()},
		RoomID:    "lecture-1",
		Date:      "2026-02-16",
		StartTime: "13:00",
		EndTime:   "15:00",
		Status:    entity.StatusRejected,
	}
	wildcard := block(entity.AllRooms(), "2026-02-16", "", "15:00", "16:00")
	class := schedule(entity.SpecificRoom("lecture-1"), 1, "16:00", "17:00", "2026-01-01", "")

	existing := Existing{
		Requests:  []*entity.RentalRequest{approved, rejected},
		Blocks:    []*entity.Block{wildcard},
		Schedules: []*entity.ClassSchedule{class},
	}

	tests := []struct {
		name   string
		c      Reservation
		ok     bool
		kind   Kind
		wantID uuid.UUID
	}{
		{"overlaps approved request", Reservation{RoomID: "lecture-1", Date: "2026-02-16", StartTime: "11:00", EndTime: "13:00"}, false, KindRequest, approved.ID},
		{"back to back with request", Reservation{RoomID: "lecture-1", Date: "2026-02-16", StartTime: "12:00", EndTime: "13:00"}, true, "", uuid.Nil},
		{"rejected request frees slot", Reservation{RoomID: "lecture-1", Date: "2026-02-16", StartTime: "13:00", EndTime: "14:00"}, true, "", uuid.Nil},
		{"wildcard block hits any room", Reservation{RoomID: "studio-1", Date: "2026-02-16", StartTime: "14:30", EndTime: "15:30"}, false, KindBlock, wildcard.ID},
		{"recurring class on monday", Reservation{RoomID: "lecture-1", Date: "2026-02-23", StartTime: "16:00", EndTime: "17:00"}, false, KindSchedule, class.ID},
		{"class is room scoped", Reservation{RoomID: "lecture-2", Date: "2026-02-23", StartTime: "16:00", EndTime: "17:00"}, true, "", uuid.Nil},
		{"before class effective range", Reservation{RoomID: "lecture-1", Date: "2025-12-29", StartTime: "16:00", EndTime: "17:00"}, true, "", uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateReservation(tt.c, existing)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, out.OK)
			if tt.ok {
				assert.NoError(t, out.Err())
				return
			}
			assert.Equal(t, tt.kind, out.Kind)
			var ce *ConflictError
			require.ErrorAs(t, out.Err(), &ce)
			assert.Equal(t, tt.wantID, ce.ID)
			assert.NotEmpty(t, ce.Message)
		})
	}
}

func TestValidateReservationGallery(t *testing.T) {
	exhibition := &entity.RentalRequest{
		Base:             entity.Base{ID: uuid.New()},
		RoomID:           "gallery",
		Date:             "2026-02-16",
		StartTime:        "10:00",
		EndTime:          "18:00",
		Status:           entity.StatusReceived,
		GalleryStartDate: "2026-02-16",
		GalleryEndDate:   "2026-02-20",
		GalleryPrepDate:  "2026-02-14",
	}
	rangeBlock := block(entity.SpecificRoom("gallery"), "2026-03-02", "2026-03-04", "10:00", "11:00")
	existing := Existing{Requests: []*entity.RentalRequest{exhibition}, Blocks: []*entity.Block{rangeBlock}}

	out, err := ValidateReservation(Reservation{RoomID: "gallery", Gallery: true, Date: "2026-02-18", StartTime: "10:00", EndTime: "18:00"}, existing)
	require.NoError(t, err)
	assert.False(t, out.OK)
	assert.Equal(t, exhibition, out.Request)

	out, err = ValidateReservation(Reservation{RoomID: "gallery", Gallery: true, Date: "2026-02-14", StartTime: "10:00", EndTime: "13:00"}, existing)
	require.NoError(t, err)
	assert.False(t, out.OK, "prep day is occupied")

	out, err = ValidateReservation(Reservation{RoomID: "gallery", Gallery: true, Date: "2026-03-03", StartTime: "14:00", EndTime: "18:00"}, existing)
	require.NoError(t, err)
	assert.False(t, out.OK, "range block covers the whole gallery day")
	assert.Equal(t, KindBlock, out.Kind)

	out, err = ValidateReservation(Reservation{RoomID: "gallery", Gallery: true, Date: "2026-02-21", StartTime: "10:00", EndTime: "13:00"}, existing)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestValidateReservationMalformed(t *testing.T) {
	_, err := ValidateReservation(Reservation{RoomID: "lecture-1", Date: "2026-13-01", StartTime: "10:00", EndTime: "11:00"}, Existing{})
	var fe *calendar.FormatError
	assert.ErrorAs(t, err, &fe)

	_, err = ValidateReservation(Reservation{RoomID: "lecture-1", Date: "2026-02-16", StartTime: "11:00", EndTime: "10:00"}, Existing{})
	assert.ErrorAs(t, err, &fe)
}

func TestValidateBlock(t *testing.T) {
	existing := []*entity.Block{
		block(entity.SpecificRoom("lecture-1"), "2026-02-16", "", "10:00", "12:00"),
		block(entity.SpecificRoom("studio-1"), "2026-03-01", "2026-03-10", "13:00", "14:00"),
	}
	classes := []*entity.ClassSchedule{
		schedule(entity.SpecificRoom("lecture-2"), 3, "10:00", "11:00", "2026-02-01", "2026-02-28"),
	}

	t.Run("same room same time", func(t *testing.T) {
		out, err := ValidateBlock(Block{Scope: entity.SpecificRoom("lecture-1"), Date: "2026-02-16", StartTime: "11:00", EndTime: "12:30"}, existing, classes)
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, existing[0], out.Block)
	})

	t.Run("different room", func(t *testing.T) {
		out, err := ValidateBlock(Block{Scope: entity.SpecificRoom("lecture-2"), Date: "2026-02-16", StartTime: "11:00", EndTime: "12:30"}, existing, nil)
		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("wildcard candidate hits every room", func(t *testing.T) {
		out, err := ValidateBlock(Block{Scope: entity.AllRooms(), Date: "2026-03-05", StartTime: "13:30", EndTime: "14:30"}, existing, nil)
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, existing[1], out.Block)
	})

	t.Run("range candidate overlapping a class weekday", func(t *testing.T) {
		// 2026-02-16 (Mon) .. 2026-02-19 (Thu) includes Wednesday the 18th.
		out, err := ValidateBlock(Block{Scope: entity.SpecificRoom("lecture-2"), Date: "2026-02-16", EndDate: "2026-02-19", StartTime: "10:30", EndTime: "11:30"}, nil, classes)
		require.NoError(t, err)
		assert.False(t, out.OK)
		assert.Equal(t, KindSchedule, out.Kind)
	})

	t.Run("range without the class weekday", func(t *testing.T) {
		out, err := ValidateBlock(Block{Scope: entity.SpecificRoom("lecture-2"), Date: "2026-02-19", EndDate: "2026-02-21", StartTime: "10:30", EndTime: "11:30"}, nil, classes)
		require.NoError(t, err)
		assert.True(t, out.OK)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := ValidateBlock(Block{Scope: entity.AllRooms(), Date: "2026-02-19", EndDate: "2026-02-18", StartTime: "10:00", EndTime: "11:00"}, nil, nil)
		assert.Error(t, err)
	})
}

func TestValidateSchedule(t *testing.T) {
	existing := []*entity.ClassSchedule{
		schedule(entity.SpecificRoom("lecture-1"), 1, "10:00", "12:00", "2026-01-01", "2026-03-31"),
		schedule(entity.AllRooms(), 5, "14:00", "15:00", "", ""),
	}
	blocks := []*entity.Block{
		block(entity.SpecificRoom("studio-1"), "2026-06-03", "", "09:00", "10:30"), // Wednesday
	}

	tests := []struct {
		name string
		c    Schedule
		ok   bool
		kind Kind
	}{
		{"same weekday overlapping range", Schedule{Scope: entity.SpecificRoom("lecture-1"), DayOfWeek: 1, StartTime: "11:00", EndTime: "13:00", EffectiveFrom: "2026-03-01", EffectiveTo: "2026-06-30"}, false, KindSchedule},
		{"disjoint effective ranges", Schedule{Scope: entity.SpecificRoom("lecture-1"), DayOfWeek: 1, StartTime: "11:00", EndTime: "13:00", EffectiveFrom: "2026-04-01", EffectiveTo: "2026-06-30"}, true, ""},
		{"different weekday", Schedule{Scope: entity.SpecificRoom("lecture-1"), DayOfWeek: 2, StartTime: "11:00", EndTime: "13:00"}, true, ""},
		{"open-ended wildcard", Schedule{Scope: entity.SpecificRoom("studio-9"), DayOfWeek: 5, StartTime: "14:30", EndTime: "16:00", EffectiveFrom: "2030-01-01"}, false, KindSchedule},
		{"block on same weekday", Schedule{Scope: entity.SpecificRoom("studio-1"), DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00", EffectiveFrom: "2026-05-01", EffectiveTo: "2026-07-31"}, false, KindBlock},
		{"block outside effective range", Schedule{Scope: entity.SpecificRoom("studio-1"), DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00", EffectiveFrom: "2026-07-01"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateSchedule(tt.c, existing, blocks)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, out.OK)
			assert.Equal(t, tt.kind, out.Kind)
		})
	}

	_, err := ValidateSchedule(Schedule{Scope: entity.AllRooms(), DayOfWeek: 7, StartTime: "10:00", EndTime: "11:00"}, nil, nil)
	assert.Error(t, err)
}
