package repository

import (
	"context"
	"errors"
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RoomRepository interface {
	FindAll(ctx context.Context) ([]*entity.Room, error)
	FindByID(ctx context.Context, id string) (*entity.Room, error)
}

type roomRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRoomRepository(db database.Querier, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

const roomColumns = `id, name, category, hourly_fee, capacity, floor`

func scanRoom(row scanner) (*entity.Room, error) {
	var (
		room     entity.Room
		category string
	)
	if err := row.Scan(&room.ID, &room.Name, &category, &room.HourlyFee, &room.Capacity, &room.Floor); err != nil {
		return nil, err
	}
	c, err := entity.ParseRoomCategory(category)
	if err != nil {
		return nil, fmt.Errorf("room %s: %w", room.ID, err)
	}
	room.Category = c
	return &room, nil
}

func (r *roomRepository) FindAll(ctx context.Context) ([]*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to query rooms", zap.Error(err))
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan room", zap.Error(err))
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rooms: %w", err)
	}

	return rooms, nil
}

func (r *roomRepository) FindByID(ctx context.Context, id string) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room", zap.Error(err), zap.String("room_id", id))
		return nil, fmt.Errorf("find room %s: %w", id, err)
	}

	return room, nil
}
