package repository

import (
	"context"
	"errors"
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.ClassSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ClassSchedule, error)
	FindAll(ctx context.Context) ([]*entity.ClassSchedule, error)
	// FindForRoom returns schedules covering roomID, wildcard schedules
	// included. An empty roomID matches every schedule.
	FindForRoom(ctx context.Context, roomID string) ([]*entity.ClassSchedule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type scheduleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewScheduleRepository(db database.Querier, log *zap.Logger) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "schedule")),
	}
}

const scheduleColumns = `id, room_id, day_of_week, start_time, end_time, title,
	COALESCE(effective_from::text, ''), COALESCE(effective_to::text, ''), created_at`

func scanSchedule(row scanner) (*entity.ClassSchedule, error) {
	var (
		s     entity.ClassSchedule
		scope string
	)
	err := row.Scan(&s.ID, &scope, &s.DayOfWeek, &s.StartTime, &s.EndTime, &s.Title,
		&s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Scope = entity.ParseRoomScope(scope)
	return &s, nil
}

func (r *scheduleRepository) collect(rows pgx.Rows) ([]*entity.ClassSchedule, error) {
	defer rows.Close()

	var schedules []*entity.ClassSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			r.log.Error("Failed to scan schedule", zap.Error(err))
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.ClassSchedule) error {
	query := `
		INSERT INTO class_schedules (id, room_id, day_of_week, start_time, end_time, title, effective_from, effective_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		schedule.ID,
		schedule.Scope.String(),
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Title,
		nullIfEmpty(schedule.EffectiveFrom),
		nullIfEmpty(schedule.EffectiveTo),
		schedule.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create schedule",
			zap.Error(err),
			zap.String("scope", schedule.Scope.String()),
			zap.Int("day_of_week", schedule.DayOfWeek),
		)
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM class_schedules WHERE id = $1`

	s, err := scanSchedule(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find schedule", zap.Error(err), zap.String("schedule_id", id.String()))
		return nil, fmt.Errorf("find schedule %s: %w", id, err)
	}
	return s, nil
}

func (r *scheduleRepository) FindAll(ctx context.Context) ([]*entity.ClassSchedule, error) {
	return r.FindForRoom(ctx, "")
}

func (r *scheduleRepository) FindForRoom(ctx context.Context, roomID string) ([]*entity.ClassSchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM class_schedules
		WHERE ($1 = '' OR room_id = $1 OR room_id = $2)
		ORDER BY day_of_week, start_time`

	rows, err := r.db.Query(ctx, query, roomID, entity.AllRoomsID)
	if err != nil {
		r.log.Error("Failed to list schedules", zap.Error(err), zap.String("room_id", roomID))
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return r.collect(rows)
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM class_schedules WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete schedule", zap.Error(err), zap.String("schedule_id", id.String()))
		return fmt.Errorf("delete schedule %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete schedule %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}
