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

type BlockRepository interface {
	Create(ctx context.Context, block *entity.Block) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Block, error)
	FindAll(ctx context.Context) ([]*entity.Block, error)
	// FindAffecting returns blocks covering roomID, wildcard blocks included,
	// whose days touch [from, to]. An empty roomID matches every block.
	FindAffecting(ctx context.Context, roomID, from, to string) ([]*entity.Block, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type blockRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBlockRepository(db database.Querier, log *zap.Logger) BlockRepository {
	return &blockRepository{
		db:  db,
		log: log.With(zap.String("repository", "block")),
	}
}

const blockColumns = `id, room_id, block_date::text, COALESCE(end_date::text, ''), start_time, end_time, reason, created_at`

func scanBlock(row scanner) (*entity.Block, error) {
	var (
		b     entity.Block
		scope string
	)
	if err := row.Scan(&b.ID, &scope, &b.Date, &b.EndDate, &b.StartTime, &b.EndTime, &b.Reason, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Scope = entity.ParseRoomScope(scope)
	return &b, nil
}

func (r *blockRepository) collect(rows pgx.Rows) ([]*entity.Block, error) {
	defer rows.Close()

	var blocks []*entity.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			r.log.Error("Failed to scan block", zap.Error(err))
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return blocks, nil
}

func (r *blockRepository) Create(ctx context.Context, block *entity.Block) error {
	query := `
		INSERT INTO blocks (id, room_id, block_date, end_date, start_time, end_time, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		block.ID,
		block.Scope.String(),
		block.Date,
		nullIfEmpty(block.EndDate),
		block.StartTime,
		block.EndTime,
		block.Reason,
		block.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create block",
			zap.Error(err),
			zap.String("scope", block.Scope.String()),
			zap.String("date", block.Date),
		)
		return fmt.Errorf("create block: %w", err)
	}

	return nil
}

func (r *blockRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = $1`

	b, err := scanBlock(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find block", zap.Error(err), zap.String("block_id", id.String()))
		return nil, fmt.Errorf("find block %s: %w", id, err)
	}
	return b, nil
}

func (r *blockRepository) FindAll(ctx context.Context) ([]*entity.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks ORDER BY block_date, start_time`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list blocks", zap.Error(err))
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return r.collect(rows)
}

func (r *blockRepository) FindAffecting(ctx context.Context, roomID, from, to string) ([]*entity.Block, error) {
	query := `SELECT ` + blockColumns + `
		FROM blocks
		WHERE ($1 = '' OR room_id = $1 OR room_id = $4)
		  AND block_date <= $3
		  AND COALESCE(end_date, block_date) >= $2
		ORDER BY block_date, start_time`

	rows, err := r.db.Query(ctx, query, roomID, from, to, entity.AllRoomsID)
	if err != nil {
		r.log.Error("Failed to find blocks",
			zap.Error(err),
			zap.String("room_id", roomID),
			zap.String("from", from),
			zap.String("to", to),
		)
		return nil, fmt.Errorf("find blocks for %s: %w", roomID, err)
	}
	return r.collect(rows)
}

func (r *blockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete block", zap.Error(err), zap.String("block_id", id.String()))
		return fmt.Errorf("delete block %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete block %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}
