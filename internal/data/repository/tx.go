package repository

import (
	"context"
	"fmt"

	"facility-rental/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// GlobalLockKey is held shared by every request write and exclusively by
// writes that can affect any room: blocks, schedules and wildcard changes.
const GlobalLockKey = "rental:all"

func RoomDateLockKey(roomID, date string) string {
	return fmt.Sprintf("rental:%s:%s", roomID, date)
}

// RequestLocks serialises writers of the same room and dates.
func RequestLocks(roomID string, dates ...string) []database.Lock {
	locks := []database.Lock{database.SharedLock(GlobalLockKey)}
	for _, d := range dates {
		locks = append(locks, database.ExclusiveLock(RoomDateLockKey(roomID, d)))
	}
	return locks
}

// GlobalLocks excludes every other writer.
func GlobalLocks() []database.Lock {
	return []database.Lock{database.ExclusiveLock(GlobalLockKey)}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) WithinLock(ctx context.Context, locks []database.Lock, fn func(tx *Repository) error) error {
	return database.WithLockedTx(ctx, t.db, locks, func(tx pgx.Tx) error {
		repo := newRepository(tx, t.log)
		repo.Tx = nestedTransactor{repo: repo}
		return fn(repo)
	})
}

// nestedTransactor reuses the transaction that is already open.
type nestedTransactor struct {
	repo *Repository
}

func (n nestedTransactor) WithinLock(_ context.Context, _ []database.Lock, fn func(tx *Repository) error) error {
	return fn(n.repo)
}
