package availability

import (
	"testing"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/hours"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog map[string]*entity.Room

func (c catalog) Room(id string) (*entity.Room, bool) {
	r, ok := c[id]
	return r, ok
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var rooms = catalog{
	"lecture-1": {ID: "lecture-1", Name: "Lecture Room 1", Category: entity.CategoryLecture, HourlyFee: 50000},
	"lecture-2": {ID: "lecture-2", Name: "Lecture Room 2", Category: entity.CategoryLecture, HourlyFee: 50000},
	"gallery":   {ID: "gallery", Name: "Gallery", Category: entity.CategoryGallery},
}

func newEngine(slot int) *Engine {
	clock := fixedClock{t: time.Date(2026, 2, 1, 10, 0, 0, 0, calendar.OperatingZone)}
	return NewEngine(rooms, hours.DefaultPolicy(), clock, slot)
}

func request(room, date, start, end string, status entity.RequestStatus) *entity.RentalRequest {
	return &entity.RentalRequest{
		Base:      entity.Base{ID: uuid.New()},
		RoomID:    room,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func unavailableStarts(res *Result) []string {
	var out []string
	for _, s := range res.Slots {
		if !s.Available {
			out = append(out, s.Start)
		}
	}
	return out
}

func TestComputeReasonCodes(t *testing.T) {
	e := newEngine(60)

	t.Run("past date", func(t *testing.T) {
		res, err := e.Compute("lecture-1", "2026-01-31", Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, ReasonPastDate, res.ReasonCode)
		assert.Empty(t, res.Slots)
	})

	t.Run("today is not past", func(t *testing.T) {
		res, err := e.Compute("lecture-1", "2026-02-01", Snapshot{})
		require.NoError(t, err)
		assert.Empty(t, res.ReasonCode)
	})

	t.Run("gallery closed on sunday", func(t *testing.T) {
		res, err := e.Compute("gallery", "2026-02-15", Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, ReasonClosed, res.ReasonCode)
		assert.Empty(t, res.Slots)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := e.Compute("nope", "2026-02-16", Snapshot{})
		assert.ErrorIs(t, err, ErrUnknownRoom)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := e.Compute("lecture-1", "16/02/2026", Snapshot{})
		var fe *calendar.FormatError
		assert.ErrorAs(t, err, &fe)
	})
}

func TestComputeGrid(t *testing.T) {
	t.Run("hourly grid on a monday", func(t *testing.T) {
		res, err := newEngine(60).Compute("lecture-1", "2026-02-16", Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, 7, res.TotalCount)
		assert.Equal(t, 7, res.AvailableCount)
		assert.Equal(t, "10:00", res.Slots[0].Start)
		assert.Equal(t, "17:00", res.Slots[6].End)
		assert.Len(t, res.StartTimes, 13)
		assert.Equal(t, "16:00", res.StartTimes[12])
	})

	t.Run("half-hour grid", func(t *testing.T) {
		res, err := newEngine(30).Compute("lecture-1", "2026-02-16", Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, 14, res.TotalCount)
	})

	t.Run("tuesday has two windows", func(t *testing.T) {
		res, err := newEngine(60).Compute("lecture-1", "2026-02-17", Snapshot{})
		require.NoError(t, err)
		assert.Equal(t, 10, res.TotalCount)
		assert.Equal(t, "18:00", res.Slots[7].Start)
	})
}

func TestComputeRequests(t *testing.T) {
	e := newEngine(60)
	snap := Snapshot{Requests: []*entity.RentalRequest{
		request("lecture-1", "2026-02-16", "10:00", "12:00", entity.StatusReceived),
		request("lecture-1", "2026-02-16", "14:00", "15:00", entity.StatusApproved),
		request("lecture-1", "2026-02-16", "15:00", "16:00", entity.StatusRejected),
		request("lecture-1", "2026-02-16", "16:00", "17:00", entity.StatusCancelled),
		request("lecture-2", "2026-02-16", "12:00", "13:00", entity.StatusApproved),
		request("lecture-1", "2026-02-17", "12:00", "13:00", entity.StatusApproved),
	}}

	res, err := e.Compute("lecture-1", "2026-02-16", snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00", "14:00"}, unavailableStarts(res))
	assert.Equal(t, 4, res.AvailableCount)
	assert.Equal(t, SourceRequest, res.Slots[0].BlockedBy)
	assert.Equal(t, []string{"12:00", "12:30", "13:00", "15:00", "15:30", "16:00"}, res.StartTimes)
}

func TestComputeBlocks(t *testing.T) {
	e := newEngine(60)
	snap := Snapshot{Blocks: []*entity.Block{
		{Scope: entity.AllRooms(), Date: "2026-02-16", StartTime: "13:00", EndTime: "14:00", Reason: "maintenance"},
		{Scope: entity.SpecificRoom("lecture-2"), Date: "2026-02-16", StartTime: "10:00", EndTime: "17:00"},
		{Scope: entity.SpecificRoom("lecture-1"), Date: "2026-02-14", EndDate: "2026-02-20", StartTime: "10:00", EndTime: "11:00"},
		{Scope: entity.SpecificRoom("gallery"), Date: "2026-02-16", EndDate: "2026-02-17", StartTime: "10:00", EndTime: "11:00"},
	}}

	t.Run("wildcard and date range keep their hours for lecture rooms", func(t *testing.T) {
		res, err := e.Compute("lecture-1", "2026-02-16", snap)
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00", "13:00"}, unavailableStarts(res))
		assert.Equal(t, SourceBlock, res.Slots[0].BlockedBy)
	})

	t.Run("other room fully blocked", func(t *testing.T) {
		res, err := e.Compute("lecture-2", "2026-02-16", snap)
		require.NoError(t, err)
		assert.True(t, res.FullyBooked())
		assert.Equal(t, 0, res.AvailableCount)
	})

	t.Run("gallery range block covers the whole day", func(t *testing.T) {
		res, err := e.Compute("gallery", "2026-02-17", snap)
		require.NoError(t, err)
		assert.True(t, res.FullyBooked())
	})

	t.Run("outside the block range", func(t *testing.T) {
		res, err := e.Compute("gallery", "2026-02-18", snap)
		require.NoError(t, err)
		assert.Equal(t, res.TotalCount, res.AvailableCount)
	})
}

func TestComputeSchedules(t *testing.T) {
	e := newEngine(60)
	snap := Snapshot{Schedules: []*entity.ClassSchedule{
		{Scope: entity.SpecificRoom("lecture-1"), DayOfWeek: 1, StartTime: "15:00", EndTime: "16:30", Title: "Pottery", EffectiveFrom: "2026-02-01", EffectiveTo: "2026-03-31"},
		{Scope: entity.AllRooms(), DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Title: "Expired", EffectiveFrom: "2025-01-01", EffectiveTo: "2025-12-31"},
		{Scope: entity.AllRooms(), DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00", Title: "Tuesday only"},
	}}

	res, err := e.Compute("lecture-1", "2026-02-16", snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"15:00", "16:00"}, unavailableStarts(res))
	assert.Equal(t, SourceSchedule, res.Slots[5].BlockedBy)

	res, err = e.Compute("lecture-2", "2026-02-17", snap)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, unavailableStarts(res))
}

func TestComputeConsolidatedGalleryRequest(t *testing.T) {
	e := newEngine(60)
	exhibition := request("gallery", "2026-02-16", "10:00", "18:00", entity.StatusApproved)
	exhibition.GalleryStartDate = "2026-02-16"
	exhibition.GalleryEndDate = "2026-02-18"
	exhibition.GalleryPrepDate = "2026-02-14"
	snap := Snapshot{Requests: []*entity.RentalRequest{exhibition}}

	for _, date := range []string{"2026-02-14", "2026-02-16", "2026-02-17", "2026-02-18"} {
		res, err := e.Compute("gallery", date, snap)
		require.NoError(t, err)
		assert.True(t, res.FullyBooked(), date)
	}

	res, err := e.Compute("gallery", "2026-02-19", snap)
	require.NoError(t, err)
	assert.False(t, res.FullyBooked())
	assert.Equal(t, 8, res.AvailableCount)
}

func TestMonth(t *testing.T) {
	e := newEngine(60)
	days, err := e.Month("gallery", 2026, time.February, Snapshot{})
	require.NoError(t, err)
	require.Len(t, days, 28)
	assert.Equal(t, "2026-02-01", days[0].Date)
	assert.Equal(t, ReasonClosed, days[0].ReasonCode) // Sunday
	assert.Equal(t, ReasonClosed, days[14].ReasonCode)
	assert.Empty(t, days[15].ReasonCode)
}
