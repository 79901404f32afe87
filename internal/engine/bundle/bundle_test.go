package bundle

import (
	"testing"

	"facility-rental/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionsWith(statuses ...entity.RequestStatus) []entity.RentalRequest {
	out := make([]entity.RentalRequest, len(statuses))
	for i, s := range statuses {
		out[i] = entity.RentalRequest{Status: s, BatchSeq: i + 1}
	}
	return out
}

func TestAnalyze(t *testing.T) {
	const (
		rcv = entity.StatusReceived
		rev = entity.StatusUnderReview
		ok  = entity.StatusApproved
		no  = entity.StatusRejected
		cxl = entity.StatusCancelled
	)

	tests := []struct {
		name     string
		statuses []entity.RequestStatus
		kind     Kind
		display  string
		filter   entity.RequestStatus
	}{
		{"empty", nil, KindAllPending, "received", rcv},
		{"all received", []entity.RequestStatus{rcv, rcv}, KindAllPending, "received", rcv},
		{"all under review", []entity.RequestStatus{rev, rev}, KindAllPending, "under_review", rev},
		{"mixed pending", []entity.RequestStatus{rcv, rev}, KindAllPending, "received", rcv},
		{"all approved", []entity.RequestStatus{ok, ok, ok}, KindAllApproved, "approved", ok},
		{"all rejected", []entity.RequestStatus{no, no}, KindAllRejected, "rejected", no},
		{"in progress", []entity.RequestStatus{ok, rcv}, KindInProgress, DisplayInProgress, rcv},
		{"in progress with rejection", []entity.RequestStatus{no, rev}, KindInProgress, DisplayInProgress, no},
		{"partially finalized", []entity.RequestStatus{ok, no, ok}, KindPartiallyFinalized, DisplayPartiallyFinalized, no},
		{"all cancelled", []entity.RequestStatus{cxl, cxl}, KindOther, "cancelled", cxl},
		{"approved and cancelled", []entity.RequestStatus{ok, cxl}, KindOther, DisplayMixed, rcv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Analyze(sessionsWith(tt.statuses...))
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.display, s.DisplayStatus)
			assert.Equal(t, tt.filter, s.StatusForFilter)
			assert.Equal(t, len(tt.statuses), s.Counts.Total)
		})
	}
}

func TestAnalyzeCounts(t *testing.T) {
	s := Analyze(sessionsWith(
		entity.StatusReceived, entity.StatusUnderReview, entity.StatusApproved,
		entity.StatusApproved, entity.StatusRejected,
	))
	assert.Equal(t, Counts{Total: 5, Received: 1, UnderReview: 1, Approved: 2, Rejected: 1}, s.Counts)
	assert.Equal(t, 2, s.Counts.Pending())
}

func TestOrder(t *testing.T) {
	sessions := []entity.RentalRequest{
		{BatchSeq: 2, Date: "2026-02-16", StartTime: "10:00"},
		{BatchSeq: 1, Date: "2026-02-17", StartTime: "10:00"},
		{BatchSeq: 2, Date: "2026-02-16", StartTime: "09:00"},
	}
	Order(sessions)
	assert.Equal(t, 1, sessions[0].BatchSeq)
	assert.Equal(t, "09:00", sessions[1].StartTime)
	assert.Equal(t, "10:00", sessions[2].StartTime)
}

func TestGroupByBatch(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	requests := []entity.RentalRequest{
		{BatchID: &a, BatchSeq: 2, Date: "2026-02-17"},
		{RoomID: "lecture-1", Date: "2026-02-16"},
		{BatchID: &b, BatchSeq: 1, Date: "2026-03-02"},
		{BatchID: &a, BatchSeq: 1, Date: "2026-02-14"},
	}

	groups := GroupByBatch(requests)
	require.Len(t, groups, 3)

	require.NotNil(t, groups[0].BatchID)
	assert.Equal(t, a, *groups[0].BatchID)
	require.Len(t, groups[0].Sessions, 2)
	assert.Equal(t, "2026-02-14", groups[0].Lead().Date)

	assert.Nil(t, groups[1].BatchID)
	assert.Equal(t, "lecture-1", groups[1].Lead().RoomID)

	assert.Equal(t, b, *groups[2].BatchID)
}

func TestFeeBasis(t *testing.T) {
	sessions := sessionsWith(entity.StatusApproved, entity.StatusReceived, entity.StatusApproved)
	basis, estimate := FeeBasis(sessions)
	assert.False(t, estimate)
	assert.Len(t, basis, 2)

	pending := sessionsWith(entity.StatusReceived, entity.StatusUnderReview)
	basis, estimate = FeeBasis(pending)
	assert.True(t, estimate)
	assert.Len(t, basis, 2)
}
