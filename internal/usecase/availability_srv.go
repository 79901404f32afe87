package usecase

import (
	"context"
	"fmt"

	"facility-rental/internal/data/repository"
	"facility-rental/internal/engine/availability"
	"facility-rental/internal/engine/calendar"
	"facility-rental/pkg/cache"

	"go.uber.org/zap"
)

type AvailabilityService interface {
	Day(ctx context.Context, roomID, date string) (*availability.Result, error)
	// Month takes month as YYYY-MM.
	Month(ctx context.Context, roomID, month string) ([]availability.DayVerdict, error)
}

type availabilityService struct {
	repo    *repository.Repository
	engines *Engines
	cache   cache.Cache
	log     *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, engines *Engines, c cache.Cache, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:    repo,
		engines: engines,
		cache:   c,
		log:     log.With(zap.String("service", "availability")),
	}
}

// snapshot loads only what can touch roomID within [from, to].
func snapshot(ctx context.Context, repo *repository.Repository, roomID, from, to string) (availability.Snapshot, error) {
	requests, err := repo.Rental.FindForRoom(ctx, roomID, from, to)
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("load requests: %w", err)
	}
	blocks, err := repo.Block.FindAffecting(ctx, roomID, from, to)
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("load blocks: %w", err)
	}
	schedules, err := repo.Schedule.FindForRoom(ctx, roomID)
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("load schedules: %w", err)
	}
	return availability.Snapshot{Requests: requests, Blocks: blocks, Schedules: schedules}, nil
}

func (s *availabilityService) Day(ctx context.Context, roomID, date string) (*availability.Result, error) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, ok := s.engines.Catalog.Room(roomID); !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	key := cache.AvailabilityKey(roomID, day.String())
	var cached availability.Result
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("Availability cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return &cached, nil
	}

	snap, err := snapshot(ctx, s.repo, roomID, day.String(), day.String())
	if err != nil {
		s.log.Error("Failed to load availability snapshot",
			zap.Error(err),
			zap.String("room_id", roomID),
			zap.String("date", day.String()),
		)
		return nil, fmt.Errorf("availability %s %s: %w", roomID, day, err)
	}

	result, err := s.engines.Availability.Compute(roomID, day.String(), snap)
	if err != nil {
		return nil, err
	}

	// Every verdict depends on today, so nothing outlives the current day.
	if err := s.cache.Set(ctx, key, result, calendar.UntilNextMidnight(s.engines.Clock)); err != nil {
		s.log.Warn("Availability cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

func (s *availabilityService) Month(ctx context.Context, roomID, month string) ([]availability.DayVerdict, error) {
	first, err := calendar.ParseDate(month + "-01")
	if err != nil {
		return nil, &calendar.FormatError{Field: "month", Value: month}
	}
	if _, ok := s.engines.Catalog.Room(roomID); !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	last := first.AddDays(first.DaysInMonth() - 1)
	snap, err := snapshot(ctx, s.repo, roomID, first.String(), last.String())
	if err != nil {
		s.log.Error("Failed to load month snapshot",
			zap.Error(err),
			zap.String("room_id", roomID),
			zap.String("month", month),
		)
		return nil, fmt.Errorf("calendar %s %s: %w", roomID, month, err)
	}

	return s.engines.Availability.Month(roomID, first.Year, first.Month, snap)
}
