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

type BlockService interface {
	Create(ctx context.Context, req *request.CreateBlockRequest) (*response.BlockResponse, error)
	List(ctx context.Context) ([]response.BlockResponse, error)
	Delete(ctx context.Context, id string) error
}

type blockService struct {
	repo        *repository.Repository
	engines     *Engines
	invalidator *cacheInvalidator
	log         *zap.Logger
}

func NewBlockService(repo *repository.Repository, engines *Engines, invalidator *cacheInvalidator, log *zap.Logger) BlockService {
	return &blockService{
		repo:        repo,
		engines:     engines,
		invalidator: invalidator,
		log:         log.With(zap.String("service", "block")),
	}
}

func (s *blockService) Create(ctx context.Context, req *request.CreateBlockRequest) (*response.BlockResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create block validation failed", zap.Any("errors", errs))
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
	day, err := calendar.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	last := day
	if req.EndDate != "" {
		if last, err = calendar.ParseDate(req.EndDate); err != nil {
			return nil, err
		}
		if last.Before(day) {
			return nil, fmt.Errorf("%w: end date %s is before %s", ErrValidation, last, day)
		}
	}

	block := &entity.Block{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Scope:     scope,
		Date:      day.String(),
		StartTime: calendar.FormatMinutes(iv.Start),
		EndTime:   calendar.FormatMinutes(iv.End),
		Reason:    req.Reason,
	}
	if req.EndDate != "" {
		block.EndDate = last.String()
	}

	err = s.repo.Tx.WithinLock(ctx, repository.GlobalLocks(), func(tx *repository.Repository) error {
		blocks, err := tx.Block.FindAffecting(ctx, "", day.String(), last.String())
		if err != nil {
			return err
		}
		schedules, err := tx.Schedule.FindAll(ctx)
		if err != nil {
			return err
		}
		outcome, err := conflict.ValidateBlock(conflict.Block{
			Scope:     block.Scope,
			Date:      block.Date,
			EndDate:   block.EndDate,
			StartTime: block.StartTime,
			EndTime:   block.EndTime,
		}, blocks, schedules)
		if err != nil {
			return err
		}
		if err := outcome.Err(); err != nil {
			return err
		}
		return tx.Block.Create(ctx, block)
	})
	if err != nil {
		var ce *conflict.ConflictError
		if errors.As(err, &ce) {
			s.log.Warn("Block conflicts with existing record",
				zap.String("room_id", req.RoomID),
				zap.String("date", block.Date),
				zap.String("conflict_id", ce.ID.String()),
			)
			return nil, err
		}
		s.log.Error("Failed to create block", zap.Error(err))
		return nil, fmt.Errorf("create block: %w", err)
	}

	s.log.Info("Block created", zap.String("block_id", block.ID.String()), zap.String("room_id", req.RoomID))
	s.invalidateBlock(ctx, block)

	res := blockResponse(block)
	return &res, nil
}

func (s *blockService) invalidateBlock(ctx context.Context, b *entity.Block) {
	room := invalidationRoom(b.Scope)
	if b.IsRange() {
		s.invalidator.invalidate(ctx, room)
		return
	}
	s.invalidator.invalidate(ctx, room, b.Date)
}

func (s *blockService) List(ctx context.Context) ([]response.BlockResponse, error) {
	blocks, err := s.repo.Block.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list blocks", zap.Error(err))
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	out := make([]response.BlockResponse, len(blocks))
	for i, b := range blocks {
		out[i] = blockResponse(b)
	}
	return out, nil
}

func (s *blockService) Delete(ctx context.Context, id string) error {
	blockID, err := parseID("block", id)
	if err != nil {
		return err
	}
	block, err := s.repo.Block.FindByID(ctx, blockID)
	if err != nil {
		return fmt.Errorf("find block: %w", err)
	}
	if block == nil {
		return fmt.Errorf("block %s: %w", id, ErrNotFound)
	}

	err = s.repo.Tx.WithinLock(ctx, repository.GlobalLocks(), func(tx *repository.Repository) error {
		return tx.Block.Delete(ctx, blockID)
	})
	if err != nil {
		s.log.Error("Failed to delete block", zap.Error(err), zap.String("block_id", id))
		return fmt.Errorf("delete block: %w", err)
	}

	s.log.Info("Block deleted", zap.String("block_id", id))
	s.invalidateBlock(ctx, block)
	return nil
}
