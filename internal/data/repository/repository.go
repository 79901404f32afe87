package repository

import (
	"context"

	"facility-rental/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Room     RoomRepository
	Rental   RentalRepository
	Block    BlockRepository
	Schedule ScheduleRepository
	Tx       Transactor
}

// Transactor runs fn against a Repository bound to one transaction that holds
// the given advisory locks.
type Transactor interface {
	WithinLock(ctx context.Context, locks []database.Lock, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgTransactor{db: db, log: log}
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Room:     NewRoomRepository(q, log),
		Rental:   NewRentalRepository(q, log),
		Block:    NewBlockRepository(q, log),
		Schedule: NewScheduleRepository(q, log),
	}
}

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
