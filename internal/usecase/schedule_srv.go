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
	"facility-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleService interface {
	Create(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error)
	List(ctx context.Context) ([]response.ScheduleResponse, error)
	Delete(ctx context.Context, id string) error
}

type scheduleService struct {
	repo        *repository.Repository
	engines     *Engines
	invalidator *cacheInvalidator
	log         *zap.Logger
}

func NewScheduleService(repo *repository.Repository, engines *Engines, invalidator *cacheInvalidator, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:        repo,
		engines:     engines,
		invalidator: invalidator,
		log:         log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) Create(ctx context.Context, req *request.CreateScheduleRequest) (*response.ScheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create schedule validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	scope, err := s.engines.roomScope(req.RoomID)
	if err != nil {
		return nil, err
	}
	iv, err := alignedInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	from, err := calendar.OptionalDate(req.EffectiveFrom)
	if err != nil {
		return nil, err
	}
	to, err := calendar.OptionalDate(req.EffectiveTo)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: effective range ends before it starts", ErrValidation)
	}

	schedule := &entity.ClassSchedule{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Scope:         scope,
		DayOfWeek:     *req.DayOfWeek,
		StartTime:     calendar.FormatMinutes(iv.Start),
		EndTime:       calendar.FormatMinutes(iv.End),
		Title:         req.Title,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	}

	err = s.repo.Tx.WithinLock(ctx, repository.GlobalLocks(), func(tx *repository.Repository) error {
		schedules, err := tx.Schedule.FindAll(ctx)
		if err != nil {
			return err
		}
		blocks, err := tx.Block.FindAll(ctx)
		if err != nil {
			return err
		}
		outcome, err := conflict.ValidateSchedule(conflict.Schedule{
			Scope:         schedule.Scope,
			DayOfWeek:     schedule.DayOfWeek,
			StartTime:     schedule.StartTime,
			EndTime:       schedule.EndTime,
			EffectiveFrom: schedule.EffectiveFrom,
			EffectiveTo:   schedule.EffectiveTo,
		}, schedules, blocks)
		if err != nil {
			return err
		}
		if err := outcome.Err(); err != nil {
			return err
		}
		return tx.Schedule.Create(ctx, schedule)
	})
	if err != nil {
		var ce *conflict.ConflictError
		if errors.As(err, &ce) {
			s.log.Warn("Schedule conflicts with existing record",
				zap.String("room_id", req.RoomID),
				zap.Int("day_of_week", schedule.DayOfWeek),
				zap.String("conflict_id", ce.ID.String()),
			)
			return nil, err
		}
		s.log.Error("Failed to create schedule", zap.Error(err))
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.log.Info("Schedule created", zap.String("schedule_id", schedule.ID.String()), zap.String("room_id", req.RoomID))
	s.invalidator.invalidate(ctx, invalidationRoom(scope))

	res := scheduleResponse(schedule)
	return &res, nil
}

func (s *scheduleService) List(ctx context.Context) ([]response.ScheduleResponse, error) {
	schedules, err := s.repo.Schedule.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list schedules", zap.Error(err))
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	out := make([]response.ScheduleResponse, len(schedules))
	for i, sc := range schedules {
		out[i] = scheduleResponse(sc)
	}
	return out, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	scheduleID, err := parseID("schedule", id)
	if err != nil {
		return err
	}
	schedule, err := s.repo.Schedule.FindByID(ctx, scheduleID)
	if err != nil {
		return fmt.Errorf("find schedule: %w", err)
	}
	if schedule == nil {
		return fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}

	err = s.repo.Tx.WithinLock(ctx, repository.GlobalLocks(), func(tx *repository.Repository) error {
		return tx.Schedule.Delete(ctx, scheduleID)
	})
	if err != nil {
		s.log.Error("Failed to delete schedule", zap.Error(err), zap.String("schedule_id", id))
		return fmt.Errorf("delete schedule: %w", err)
	}

	s.log.Info("Schedule deleted", zap.String("schedule_id", id))
	s.invalidator.invalidate(ctx, invalidationRoom(schedule.Scope))
	return nil
}
