package usecase

import (
	"context"
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/dto/response"
	"facility-rental/internal/engine/bundle"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/conflict"
	"facility-rental/internal/engine/hours"
	"facility-rental/pkg/utils"

	"github.com/google/uuid"
)

const (
	MinDurationMinutes = hours.MinBookingMinutes
	MaxDurationMinutes = 360
	// MaxExhibitionDays caps a gallery period, counted in calendar days.
	MaxExhibitionDays = 31
)

func parseID(kind, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID %q", ErrValidation, kind, id)
	}
	return parsed, nil
}

func findRental(ctx context.Context, repo *repository.Repository, id uuid.UUID) (*entity.RentalRequest, error) {
	rental, err := repo.Rental.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find rental: %w", err)
	}
	if rental == nil {
		return nil, fmt.Errorf("rental %s: %w", id, ErrNotFound)
	}
	return rental, nil
}

// sessionsOf returns the whole bundle of rental, or rental alone.
func sessionsOf(ctx context.Context, repo *repository.Repository, rental *entity.RentalRequest) ([]*entity.RentalRequest, error) {
	if !rental.IsBundled() {
		return []*entity.RentalRequest{rental}, nil
	}
	sessions, err := repo.Rental.FindByBatchID(ctx, *rental.BatchID)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}
	if len(sessions) == 0 {
		return []*entity.RentalRequest{rental}, nil
	}
	return sessions, nil
}

func checkPin(rental *entity.RentalRequest, pin string) error {
	if !utils.CheckPassword(rental.PinHash, pin) {
		return fmt.Errorf("%w: PIN does not match", ErrUnauthorized)
	}
	return nil
}

// checkReservation loads the snapshot for one candidate session inside the
// caller's transaction and reports the first conflict. Sessions listed in
// exclude are ignored so a request never collides with itself.
func checkReservation(ctx context.Context, tx *repository.Repository, c conflict.Reservation, exclude map[uuid.UUID]bool) error {
	snap, err := snapshot(ctx, tx, c.RoomID, c.Date, c.Date)
	if err != nil {
		return err
	}
	if len(exclude) > 0 {
		kept := snap.Requests[:0]
		for _, r := range snap.Requests {
			if !exclude[r.ID] {
				kept = append(kept, r)
			}
		}
		snap.Requests = kept
	}

	outcome, err := conflict.ValidateReservation(c, conflict.Existing{
		Requests:  snap.Requests,
		Blocks:    snap.Blocks,
		Schedules: snap.Schedules,
	})
	if err != nil {
		return err
	}
	return outcome.Err()
}

func (e *Engines) reservationOf(r *entity.RentalRequest) conflict.Reservation {
	room, _ := e.Catalog.Room(r.RoomID)
	return conflict.Reservation{
		RoomID:    r.RoomID,
		Gallery:   room != nil && room.IsGallery(),
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// fees prices rental alone, or its bundle on the approved-first basis.
func (e *Engines) fees(rental *entity.RentalRequest, sessions []*entity.RentalRequest) (response.FeesResponse, error) {
	if !rental.IsBundled() {
		b, err := e.Pricing.SessionFees(*rental)
		if err != nil {
			return response.FeesResponse{}, err
		}
		return response.FeesResponse{Breakdown: b}, nil
	}

	ordered := values(sessions)
	bundle.Order(ordered)
	b, estimate, err := e.Pricing.PayableBundleFees(ordered)
	if err != nil {
		return response.FeesResponse{}, err
	}
	return response.FeesResponse{Breakdown: b, Bundle: true, Estimate: estimate}, nil
}

func (e *Engines) detail(rental *entity.RentalRequest, sessions []*entity.RentalRequest) (*response.RentalDetailResponse, error) {
	fees, err := e.fees(rental, sessions)
	if err != nil {
		return nil, fmt.Errorf("compute fees: %w", err)
	}
	res := &response.RentalDetailResponse{
		Rental: e.rentalResponse(rental),
		Fees:   fees,
	}
	if rental.IsBundled() {
		ordered := values(sessions)
		bundle.Order(ordered)
		res.Bundle = &response.BundleResponse{
			BatchID:  *rental.BatchID,
			Summary:  bundle.Analyze(ordered),
			Sessions: e.rentalResponses(pointers(ordered)),
		}
	}
	return res, nil
}

// lockDates lists every day the sessions occupy. A consolidated gallery row
// stands for each day of its exhibition period plus the prep day.
func lockDates(sessions []*entity.RentalRequest) []string {
	dates := make([]string, 0, len(sessions))
	for _, s := range sessions {
		dates = append(dates, s.Date)
		if !s.SpansGalleryPeriod() {
			continue
		}
		if s.GalleryPrepDate != "" {
			dates = append(dates, s.GalleryPrepDate)
		}
		dates = append(dates, periodDays(s.GalleryStartDate, s.GalleryEndDate)...)
	}
	return dates
}

func periodDays(start, end string) []string {
	from, err := calendar.ParseDate(start)
	if err != nil {
		return nil
	}
	to, err := calendar.ParseDate(end)
	if err != nil {
		return []string{from.String()}
	}
	var days []string
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d.String())
	}
	return days
}

// transition applies action to every session that allows it and reports
// how many were skipped. A session that stops occupying its slot while
// pending is checked for conflicts again before it is approved.
func (e *Engines) transition(ctx context.Context, tx *repository.Repository, sessions []*entity.RentalRequest, action Action, reason string) ([]*entity.RentalRequest, int, error) {
	var (
		updated []*entity.RentalRequest
		skipped int
	)
	exclude := make(map[uuid.UUID]bool, len(sessions))
	for _, s := range sessions {
		exclude[s.ID] = true
	}
	if action != ActionReject && action != ActionCancel {
		reason = ""
	}

	for _, s := range sessions {
		next, err := nextStatus(s.Status, action)
		if err != nil {
			if len(sessions) == 1 {
				return nil, 0, err
			}
			skipped++
			continue
		}
		if next.Occupies() && !s.Status.Occupies() && !s.SpansGalleryPeriod() {
			if err := checkReservation(ctx, tx, e.reservationOf(s), exclude); err != nil {
				return nil, 0, err
			}
		}
		if err := tx.Rental.UpdateStatus(ctx, s.ID, next, reason); err != nil {
			return nil, 0, err
		}
		s.Status = next
		s.RejectReason = reason
		updated = append(updated, s)
	}

	if len(updated) == 0 {
		return nil, skipped, fmt.Errorf("%w: no session can be %s", ErrInvalidState, pastTense(action))
	}
	return updated, skipped, nil
}

func pastTense(a Action) string {
	switch a {
	case ActionReview:
		return "put under review"
	case ActionApprove:
		return "approved"
	case ActionReject:
		return "rejected"
	default:
		return "cancelled"
	}
}
