package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/dto/request"
	"facility-rental/internal/dto/response"
	"facility-rental/internal/engine/calendar"
	"facility-rental/internal/engine/conflict"
	"facility-rental/internal/engine/hours"
	"facility-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RentalService interface {
	// Applicant endpoints
	Submit(ctx context.Context, req *request.CreateRentalRequest) (*response.RentalDetailResponse, error)
	SubmitGallery(ctx context.Context, req *request.CreateGalleryRentalRequest) (*response.GallerySubmitResponse, error)
	Get(ctx context.Context, id, pin string) (*response.RentalDetailResponse, error)
	Fees(ctx context.Context, id, pin string) (*response.FeesResponse, error)
	Cancel(ctx context.Context, id string, req *request.PinRequest) (*response.StatusChangeResponse, error)

	// Quote prices a gallery period without storing anything.
	Quote(ctx context.Context, startDate, endDate string) (*response.GalleryQuoteResponse, error)
}

type rentalService struct {
	repo        *repository.Repository
	engines     *Engines
	infra       Infra
	invalidator *cacheInvalidator
	log         *zap.Logger
}

func NewRentalService(repo *repository.Repository, engines *Engines, infra Infra, invalidator *cacheInvalidator, log *zap.Logger) RentalService {
	return &rentalService{
		repo:        repo,
		engines:     engines,
		infra:       infra,
		invalidator: invalidator,
		log:         log.With(zap.String("service", "rental")),
	}
}

func validationError(errs map[string]string) error {
	return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
}

func (s *rentalService) allow(phone string) error {
	if s.infra.Limiter != nil && !s.infra.Limiter.Allow(phone) {
		s.log.Warn("Submission rate limited", zap.String("phone", phone))
		return fmt.Errorf("%w: slow down before submitting again", ErrRateLimited)
	}
	return nil
}

func newApplicantRental(a request.Applicant, pinHash string, now time.Time) *entity.RentalRequest {
	return &entity.RentalRequest{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ApplicantName:  a.ApplicantName,
		ApplicantPhone: a.ApplicantPhone,
		ApplicantEmail: a.ApplicantEmail,
		Organization:   a.Organization,
		Purpose:        a.Purpose,
		Headcount:      a.Headcount,
		PinHash:        pinHash,
		Equipment:      []string{},
		Status:         entity.DefaultPendingStatus,
	}
}

func (s *rentalService) Submit(ctx context.Context, req *request.CreateRentalRequest) (*response.RentalDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit rental validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}
	if err := s.allow(req.ApplicantPhone); err != nil {
		return nil, err
	}

	room, ok := s.engines.Catalog.Room(req.RoomID)
	if !ok {
		return nil, fmt.Errorf("room %s: %w", req.RoomID, ErrNotFound)
	}
	if room.IsGallery() {
		return nil, fmt.Errorf("%w: the gallery is rented by exhibition period", ErrValidation)
	}

	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	iv, err := calendar.ParseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if iv.Start%hours.StepMinutes != 0 || iv.End%hours.StepMinutes != 0 {
		return nil, fmt.Errorf("%w: times must be on a %d-minute boundary", ErrValidation, hours.StepMinutes)
	}
	if d := iv.Minutes(); d < MinDurationMinutes || d > MaxDurationMinutes {
		return nil, fmt.Errorf("%w: duration must be between %d and %d hours",
			ErrValidation, MinDurationMinutes/60, MaxDurationMinutes/60)
	}
	if day.Before(s.engines.today()) {
		return nil, fmt.Errorf("%w: %s is in the past", ErrValidation, day)
	}

	equipment, err := s.equipment(room, req.Equipment)
	if err != nil {
		return nil, err
	}

	if err := s.engines.Policy.Validate(room.Category, day, iv); err != nil {
		s.log.Warn("Rental outside operating hours",
			zap.String("room_id", room.ID),
			zap.String("date", day.String()),
			zap.String("interval", iv.String()),
		)
		return nil, err
	}

	pinHash, err := utils.HashPassword(req.Pin)
	if err != nil {
		s.log.Error("Failed to hash PIN", zap.Error(err))
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	rental := newApplicantRental(req.Applicant, pinHash, time.Now())
	rental.RoomID = room.ID
	rental.Date = day.String()
	rental.StartTime = calendar.FormatMinutes(iv.Start)
	rental.EndTime = calendar.FormatMinutes(iv.End)
	rental.Equipment = equipment

	err = s.repo.Tx.WithinLock(ctx, repository.RequestLocks(room.ID, rental.Date), func(tx *repository.Repository) error {
		if err := checkReservation(ctx, tx, s.engines.reservationOf(rental), nil); err != nil {
			return err
		}
		return tx.Rental.Create(ctx, rental)
	})
	if err != nil {
		var ce *conflict.ConflictError
		if errors.As(err, &ce) {
			s.log.Warn("Rental conflicts with existing record",
				zap.String("room_id", room.ID),
				zap.String("date", rental.Date),
				zap.String("kind", string(ce.Kind)),
				zap.String("conflict_id", ce.ID.String()),
			)
			return nil, err
		}
		s.log.Error("Failed to submit rental", zap.Error(err), zap.String("room_id", room.ID))
		return nil, fmt.Errorf("submit rental: %w", err)
	}

	s.log.Info("Rental submitted",
		zap.String("rental_id", rental.ID.String()),
		zap.String("room_id", room.ID),
		zap.String("date", rental.Date),
	)
	s.invalidator.invalidate(ctx, room.ID, rental.Date)
	publish(ctx, s.infra.Publisher, s.log, EventRentalSubmitted, newRentalEvent([]*entity.RentalRequest{rental}, ""))

	return s.engines.detail(rental, nil)
}

// equipment checks codes against the room's table and drops duplicates.
func (s *rentalService) equipment(room *entity.Room, codes []string) ([]string, error) {
	table := s.engines.Pricing.EquipmentFor(room.Category)
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := table[code]; !ok {
			return nil, fmt.Errorf("%w: %s has no equipment %q", ErrValidation, room.Name, code)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out, nil
}

// checkGalleryPeriod parses a period and enforces its maximum length.
func checkGalleryPeriod(startDate, endDate string) (calendar.Date, error) {
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return calendar.Date{}, err
	}
	end, err := calendar.ParseDate(endDate)
	if err != nil {
		return calendar.Date{}, err
	}
	if start.DaysUntil(end) >= MaxExhibitionDays {
		return calendar.Date{}, fmt.Errorf("%w: an exhibition lasts at most %d days", ErrValidation, MaxExhibitionDays)
	}
	return start, nil
}

func (s *rentalService) SubmitGallery(ctx context.Context, req *request.CreateGalleryRentalRequest) (*response.GallerySubmitResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Submit gallery validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}
	if err := s.allow(req.ApplicantPhone); err != nil {
		return nil, err
	}

	room, ok := s.engines.Catalog.Gallery()
	if !ok {
		return nil, fmt.Errorf("gallery room: %w", ErrNotFound)
	}
	if _, err := checkGalleryPeriod(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	generated, err := s.engines.Gallery.Generate(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	stats, err := s.engines.Gallery.ComputeStats(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if first := calendar.MustParseDate(generated[0].Date); first.Before(s.engines.today()) {
		return nil, fmt.Errorf("%w: the exhibition must start after %s", ErrValidation, first)
	}

	pinHash, err := utils.HashPassword(req.Pin)
	if err != nil {
		s.log.Error("Failed to hash PIN", zap.Error(err))
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	now := time.Now()
	batchID := uuid.New()
	sessions := make([]*entity.RentalRequest, len(generated))
	dates := make([]string, len(generated))
	for i, g := range generated {
		r := newApplicantRental(req.Applicant, pinHash, now)
		r.RoomID = room.ID
		r.Date = g.Date
		r.StartTime = g.StartTime
		r.EndTime = g.EndTime
		r.IsPrepDay = g.IsPrepDay
		r.BatchID = &batchID
		r.BatchSeq = i + 1
		r.BatchSize = len(generated)
		r.GalleryStartDate = req.StartDate
		r.GalleryEndDate = req.EndDate
		r.GalleryPrepDate = stats.PrepDate
		r.GalleryWeekdayCount = stats.WeekdayCount
		r.GallerySaturdayCount = stats.SaturdayCount
		sessions[i] = r
		dates[i] = g.Date
	}

	err = s.repo.Tx.WithinLock(ctx, repository.RequestLocks(room.ID, dates...), func(tx *repository.Repository) error {
		for _, r := range sessions {
			if err := checkReservation(ctx, tx, s.engines.reservationOf(r), nil); err != nil {
				return err
			}
		}
		return tx.Rental.CreateBatch(ctx, sessions)
	})
	if err != nil {
		var ce *conflict.ConflictError
		if errors.As(err, &ce) {
			s.log.Warn("Gallery period conflicts with existing record",
				zap.String("start_date", req.StartDate),
				zap.String("end_date", req.EndDate),
				zap.String("kind", string(ce.Kind)),
			)
			return nil, err
		}
		s.log.Error("Failed to submit gallery rental", zap.Error(err))
		return nil, fmt.Errorf("submit gallery rental: %w", err)
	}

	s.log.Info("Gallery rental submitted",
		zap.String("batch_id", batchID.String()),
		zap.Int("sessions", len(sessions)),
	)
	s.invalidator.invalidate(ctx, room.ID, dates...)
	publish(ctx, s.infra.Publisher, s.log, EventRentalSubmitted, newRentalEvent(sessions, ""))

	fees, err := s.engines.fees(sessions[0], sessions)
	if err != nil {
		return nil, fmt.Errorf("compute fees: %w", err)
	}
	return &response.GallerySubmitResponse{
		BatchID:  batchID,
		Stats:    stats,
		Sessions: s.engines.rentalResponses(sessions),
		Fees:     fees,
	}, nil
}

// lookup loads a rental and its bundle after checking the applicant's PIN.
func (s *rentalService) lookup(ctx context.Context, id, pin string) (*entity.RentalRequest, []*entity.RentalRequest, error) {
	rentalID, err := parseID("rental", id)
	if err != nil {
		return nil, nil, err
	}
	rental, err := findRental(ctx, s.repo, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkPin(rental, pin); err != nil {
		s.log.Warn("PIN mismatch", zap.String("rental_id", id))
		return nil, nil, err
	}
	sessions, err := sessionsOf(ctx, s.repo, rental)
	if err != nil {
		return nil, nil, err
	}
	return rental, sessions, nil
}

func (s *rentalService) Get(ctx context.Context, id, pin string) (*response.RentalDetailResponse, error) {
	rental, sessions, err := s.lookup(ctx, id, pin)
	if err != nil {
		return nil, err
	}
	return s.engines.detail(rental, sessions)
}

func (s *rentalService) Fees(ctx context.Context, id, pin string) (*response.FeesResponse, error) {
	rental, sessions, err := s.lookup(ctx, id, pin)
	if err != nil {
		return nil, err
	}
	fees, err := s.engines.fees(rental, sessions)
	if err != nil {
		return nil, fmt.Errorf("compute fees: %w", err)
	}
	return &fees, nil
}

// Cancel withdraws a session. A bundled session withdraws the whole bundle.
func (s *rentalService) Cancel(ctx context.Context, id string, req *request.PinRequest) (*response.StatusChangeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	rental, sessions, err := s.lookup(ctx, id, req.Pin)
	if err != nil {
		return nil, err
	}
	return changeStatus(ctx, s.repo, s.engines, s.infra, s.invalidator, s.log,
		rental, sessions, true, ActionCancel, "cancelled by applicant")
}

func (s *rentalService) Quote(ctx context.Context, startDate, endDate string) (*response.GalleryQuoteResponse, error) {
	if _, err := checkGalleryPeriod(startDate, endDate); err != nil {
		return nil, err
	}
	generated, err := s.engines.Gallery.Generate(startDate, endDate)
	if err != nil {
		return nil, err
	}
	stats, err := s.engines.Gallery.ComputeStats(startDate, endDate)
	if err != nil {
		return nil, err
	}

	rates := s.engines.Gallery.Rates()
	out := make([]response.GalleryQuoteSession, len(generated))
	for i, g := range generated {
		var fee int64
		if !g.IsPrepDay {
			fee = rates.DayFee(calendar.MustParseDate(g.Date).Weekday())
		}
		out[i] = response.GalleryQuoteSession{
			Date:      g.Date,
			StartTime: g.StartTime,
			EndTime:   g.EndTime,
			IsPrepDay: g.IsPrepDay,
			Fee:       fee,
		}
	}
	return &response.GalleryQuoteResponse{Stats: stats, Sessions: out}, nil
}

// changeStatus applies action under the room/date locks of sessions, then
// invalidates the cache and publishes the change. With wholeBundle the
// bundle of rental is reloaded inside the transaction, otherwise rental
// alone, so that concurrent decisions are seen.
func changeStatus(
	ctx context.Context,
	repo *repository.Repository,
	engines *Engines,
	infra Infra,
	invalidator *cacheInvalidator,
	log *zap.Logger,
	rental *entity.RentalRequest,
	sessions []*entity.RentalRequest,
	wholeBundle bool,
	action Action,
	reason string,
) (*response.StatusChangeResponse, error) {
	dates := lockDates(sessions)
	previous := rental.Status

	var (
		updated []*entity.RentalRequest
		skipped int
	)
	err := repo.Tx.WithinLock(ctx, repository.RequestLocks(rental.RoomID, dates...), func(tx *repository.Repository) error {
		fresh, err := findRental(ctx, tx, rental.ID)
		if err != nil {
			return err
		}
		current := []*entity.RentalRequest{fresh}
		if wholeBundle {
			if current, err = sessionsOf(ctx, tx, fresh); err != nil {
				return err
			}
		}
		updated, skipped, err = engines.transition(ctx, tx, current, action, reason)
		return err
	})
	if err != nil {
		var ce *conflict.ConflictError
		switch {
		case errors.As(err, &ce):
			log.Warn("Status change conflicts with existing record",
				zap.String("rental_id", rental.ID.String()),
				zap.String("action", string(action)),
				zap.String("conflict_id", ce.ID.String()),
			)
			return nil, err
		case errors.Is(err, ErrInvalidState), errors.Is(err, ErrNotFound):
			return nil, err
		}
		log.Error("Failed to change rental status",
			zap.Error(err),
			zap.String("rental_id", rental.ID.String()),
			zap.String("action", string(action)),
		)
		return nil, fmt.Errorf("change status: %w", err)
	}

	log.Info("Rental status changed",
		zap.String("rental_id", rental.ID.String()),
		zap.String("action", string(action)),
		zap.Int("updated", len(updated)),
		zap.Int("skipped", skipped),
	)
	invalidator.invalidate(ctx, rental.RoomID, dates...)
	publish(ctx, infra.Publisher, log, EventRentalStatusChanged, newRentalEvent(updated, previous))

	return &response.StatusChangeResponse{
		Updated: engines.rentalResponses(updated),
		Skipped: skipped,
	}, nil
}
