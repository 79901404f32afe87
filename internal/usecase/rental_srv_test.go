package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/dto/request"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/conflict"
	"facility-rental/internal/engine/gallery"
	"facility-rental/internal/engine/hours"
	"facility-rental/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.svc.Rental.Submit(ctx, lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00", "projector", "projector"))
	require.NoError(t, err)

	assert.Equal(t, "received", res.Rental.Status)
	assert.Equal(t, "Lecture Room 1", res.Rental.RoomName)
	assert.Equal(t, []string{"projector"}, res.Rental.Equipment)
	assert.Equal(t, 2.0, res.Fees.DurationHours)
	assert.Equal(t, int64(60000), res.Fees.RentalFee)
	assert.Equal(t, int64(10000), res.Fees.EquipmentFee)
	assert.Equal(t, int64(70000), res.Fees.FinalFee)
	assert.Nil(t, res.Bundle)

	locks := h.tx.last()
	assert.Contains(t, locks, database.SharedLock(repository.GlobalLockKey))
	assert.Contains(t, locks, database.ExclusiveLock(repository.RoomDateLockKey("lecture-1", "2026-02-16")))
	assert.Equal(t, []string{EventRentalSubmitted}, h.pub.keys())

	stored := h.db.rentals[0]
	assert.NotEqual(t, applicantPin, stored.PinHash)
}

func TestSubmitRejects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		req   *request.CreateRentalRequest
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown room",
			req:  lectureRequest("attic", "2026-02-16", "10:00", "12:00"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name: "gallery by the hour",
			req:  lectureRequest("gallery", "2026-02-16", "10:00", "12:00"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
		{
			name: "off the half hour",
			req:  lectureRequest("lecture-1", "2026-02-16", "10:15", "12:15"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
		{
			name: "too short",
			req:  lectureRequest("lecture-1", "2026-02-16", "10:00", "10:30"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
		{
			name: "too long",
			req:  lectureRequest("lecture-1", "2026-02-17", "10:00", "16:30"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
		{
			name: "inverted range",
			req:  lectureRequest("lecture-1", "2026-02-16", "12:00", "10:00"),
			check: func(t *testing.T, err error) {
				var fe *calendar.FormatError
				assert.True(t, errors.As(err, &fe))
			},
		},
		{
			name: "past date",
			req:  lectureRequest("lecture-1", "2026-02-09", "10:00", "12:00"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
		{
			name: "equipment of another category",
			req:  lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00", "lighting"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
		{
			name: "after closing",
			req:  lectureRequest("lecture-1", "2026-02-16", "16:00", "18:00"),
			check: func(t *testing.T, err error) {
				var oh *hours.OutOfHoursError
				assert.True(t, errors.As(err, &oh))
			},
		},
		{
			name: "across the tuesday break",
			req:  lectureRequest("lecture-1", "2026-02-17", "16:00", "19:00"),
			check: func(t *testing.T, err error) {
				var oh *hours.OutOfHoursError
				assert.True(t, errors.As(err, &oh))
			},
		},
		{
			name: "bad pin",
			req: func() *request.CreateRentalRequest {
				r := lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00")
				r.Pin = "12a4"
				return r
			}(),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrValidation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.svc.Rental.Submit(ctx, tt.req)
			require.Error(t, err)
			tt.check(t, err)
			assert.Empty(t, h.db.rentals)
			assert.Empty(t, h.pub.keys())
		})
	}
}

func TestSubmitTuesdayEvening(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Rental.Submit(context.Background(), lectureRequest("lecture-2", "2026-02-17", "18:00", "21:00"))
	require.NoError(t, err)
}

func TestSubmitConflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first, err := h.svc.Rental.Submit(ctx, lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00"))
	require.NoError(t, err)

	_, err = h.svc.Rental.Submit(ctx, lectureRequest("lecture-1", "2026-02-16", "11:00", "13:00"))
	var ce *conflict.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, conflict.KindRequest, ce.Kind)
	assert.Equal(t, first.Rental.ID, ce.ID)

	// back to back and other rooms are fine
	_, err = h.svc.Rental.Submit(ctx, lectureRequest("lecture-1", "2026-02-16", "12:00", "13:00"))
	assert.NoError(t, err)
	_, err = h.svc.Rental.Submit(ctx, lectureRequest("lecture-2", "2026-02-16", "11:00", "13:00"))
	assert.NoError(t, err)
}

func TestConcurrentSubmissionsForOneSlot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	const n = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Rental.Submit(ctx, lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00"))
			var ce *conflict.ConflictError
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.As(err, &ce):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(n-1), conflicts.Load())
	assert.Len(t, h.db.rentals, 1)
}

func TestSubmitAfterCancelFreesSlot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first, err := h.svc.Rental.Submit(ctx, lectureRequest("studio-1", "2026-02-16", "10:00", "12:00"))
	require.NoError(t, err)

	_, err = h.svc.Rental.Cancel(ctx, first.Rental.ID.String(), &request.PinRequest{Pin: applicantPin})
	require.NoError(t, err)

	_, err = h.svc.Rental.Submit(ctx, lectureRequest("studio-1", "2026-02-16", "10:00", "12:00"))
	assert.NoError(t, err)
}

func TestSubmitRateLimited(t *testing.T) {
	h := newHarness(t)
	h.limiter.deny = true

	_, err := h.svc.Rental.Submit(context.Background(), lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00"))
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = h.svc.Rental.SubmitGallery(context.Background(), galleryRequest("2026-02-16", "2026-02-21"))
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSubmitGallery(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-16", "2026-02-21"))
	require.NoError(t, err)

	require.Len(t, res.Sessions, 7)
	prep := res.Sessions[0]
	assert.True(t, prep.IsPrepDay)
	assert.Equal(t, "2026-02-14", prep.Date)
	assert.Equal(t, "10:00", prep.StartTime)
	assert.Equal(t, "13:00", prep.EndTime)
	for i, s := range res.Sessions {
		assert.Equal(t, i+1, s.BatchSeq)
		assert.Equal(t, 7, s.BatchSize)
		assert.Equal(t, res.BatchID, *s.BatchID)
	}
	assert.Equal(t, "10:00", res.Sessions[2].StartTime)
	assert.Equal(t, "20:00", res.Sessions[2].EndTime, "tuesday runs late")

	assert.Equal(t, 5, res.Stats.WeekdayCount)
	assert.Equal(t, 1, res.Stats.SaturdayCount)
	assert.Equal(t, int64(110000), res.Stats.TotalFee)
	assert.Equal(t, int64(110000), res.Fees.FinalFee)
	assert.True(t, res.Fees.Bundle)
	assert.True(t, res.Fees.Estimate)

	assert.Len(t, h.tx.last(), 8, "global key plus one key per date")

	_, err = h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-20", "2026-02-24"))
	var ce *conflict.ConflictError
	assert.True(t, errors.As(err, &ce))
}

func TestSubmitGalleryRejects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-15", "2026-02-15"))
	assert.ErrorIs(t, err, gallery.ErrInvalidPeriod)

	_, err = h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-21", "2026-02-16"))
	assert.ErrorIs(t, err, gallery.ErrInvalidPeriod)

	_, err = h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-03-02", "2026-04-10"))
	assert.ErrorIs(t, err, ErrValidation)

	// the prep day 2026-02-09 is already past
	_, err = h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-10", "2026-02-11"))
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, h.db.rentals)
}

func TestGalleryBlockedByRangeBlock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.svc.Block.Create(ctx, &request.CreateBlockRequest{
		RoomID: "gallery", Date: "2026-02-18", EndDate: "2026-02-19",
		StartTime: "10:00", EndTime: "11:00", Reason: "Floor waxing",
	})
	require.NoError(t, err)

	_, err = h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-16", "2026-02-21"))
	var ce *conflict.ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, conflict.KindBlock, ce.Kind)
}

func TestGetChecksPin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	created, err := h.svc.Rental.Submit(ctx, lectureRequest("lecture-1", "2026-02-16", "10:00", "12:00"))
	require.NoError(t, err)
	id := created.Rental.ID.String()

	_, err = h.svc.Rental.Get(ctx, id, "9999")
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := h.svc.Rental.Get(ctx, id, applicantPin)
	require.NoError(t, err)
	assert.Equal(t, created.Rental.ID, got.Rental.ID)

	_, err = h.svc.Rental.Get(ctx, "not-a-uuid", applicantPin)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = h.svc.Rental.Get(ctx, "6f1c1f0e-8f3a-4a57-9d55-7d9b0cbb1f11", applicantPin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGalleryLookupIncludesBundle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-16", "2026-02-21"))
	require.NoError(t, err)

	got, err := h.svc.Rental.Get(ctx, res.Sessions[3].ID.String(), applicantPin)
	require.NoError(t, err)
	require.NotNil(t, got.Bundle)
	assert.Equal(t, res.BatchID, got.Bundle.BatchID)
	assert.Len(t, got.Bundle.Sessions, 7)
	assert.Equal(t, entity.StatusReceived, got.Bundle.Summary.StatusForFilter)

	fees, err := h.svc.Rental.Fees(ctx, res.Sessions[3].ID.String(), applicantPin)
	require.NoError(t, err)
	assert.Equal(t, int64(110000), fees.FinalFee)
	assert.True(t, fees.Estimate)
}

func TestCancelBundle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.svc.Rental.SubmitGallery(ctx, galleryRequest("2026-02-16", "2026-02-21"))
	require.NoError(t, err)

	out, err := h.svc.Rental.Cancel(ctx, res.Sessions[2].ID.String(), &request.PinRequest{Pin: applicantPin})
	require.NoError(t, err)
	assert.Len(t, out.Updated, 7)
	assert.Zero(t, out.Skipped)
	for _, s := range res.Sessions {
		assert.Equal(t, entity.StatusCancelled, h.status(t, s.ID))
	}
	assert.Equal(t, []string{EventRentalSubmitted, EventRentalStatusChanged}, h.pub.keys())

	_, err = h.svc.Rental.Cancel(ctx, res.Sessions[2].ID.String(), &request.PinRequest{Pin: applicantPin})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = h.svc.Rental.Cancel(ctx, res.Sessions[2].ID.String(), &request.PinRequest{Pin: "0000"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestQuote(t *testing.T) {
	h := newHarness(t)

	q, err := h.svc.Rental.Quote(context.Background(), "2026-02-16", "2026-02-21")
	require.NoError(t, err)
	require.Len(t, q.Sessions, 7)
	assert.True(t, q.Sessions[0].IsPrepDay)
	assert.Zero(t, q.Sessions[0].Fee)

	var sum int64
	for _, s := range q.Sessions {
		sum += s.Fee
	}
	assert.Equal(t, q.Stats.TotalFee, sum)
	assert.Equal(t, int64(10000), q.Sessions[6].Fee)
	assert.Empty(t, h.db.rentals)

	_, err = h.svc.Rental.Quote(context.Background(), "2026-2-16", "2026-02-21")
	var fe *calendar.FormatError
	assert.True(t, errors.As(err, &fe))
}
