package usecase

import (
	"context"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/pkg/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routing keys consumed by the notification mailer.
const (
	EventRentalSubmitted     = "rental.submitted"
	EventRentalStatusChanged = "rental.status_changed"
)

type RentalEvent struct {
	RentalIDs      []uuid.UUID `json:"rental_ids"`
	BatchID        *uuid.UUID  `json:"batch_id,omitempty"`
	RoomID         string      `json:"room_id"`
	Dates          []string    `json:"dates"`
	ApplicantName  string      `json:"applicant_name"`
	ApplicantPhone string      `json:"applicant_phone"`
	ApplicantEmail string      `json:"applicant_email,omitempty"`
	Status         string      `json:"status"`
	PreviousStatus string      `json:"previous_status,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	OccurredAt     time.Time   `json:"occurred_at"`
}

func newRentalEvent(sessions []*entity.RentalRequest, previous entity.RequestStatus) RentalEvent {
	lead := sessions[0]
	ev := RentalEvent{
		BatchID:        lead.BatchID,
		RoomID:         lead.RoomID,
		ApplicantName:  lead.ApplicantName,
		ApplicantPhone: lead.ApplicantPhone,
		ApplicantEmail: lead.ApplicantEmail,
		Status:         string(lead.Status),
		PreviousStatus: string(previous),
		Reason:         lead.RejectReason,
		OccurredAt:     time.Now().UTC(),
	}
	for _, s := range sessions {
		ev.RentalIDs = append(ev.RentalIDs, s.ID)
		ev.Dates = append(ev.Dates, s.Date)
	}
	return ev
}

// publish never fails the caller; the write it reports is already committed.
func publish(ctx context.Context, pub queue.Publisher, log *zap.Logger, key string, ev RentalEvent) {
	if err := pub.Publish(ctx, key, ev); err != nil {
		log.Warn("Event dropped", zap.String("routing_key", key), zap.Error(err))
	}
}
