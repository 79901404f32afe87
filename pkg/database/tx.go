package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

// Lock names a transaction scoped advisory lock.
type Lock struct {
	Key    string
	Shared bool
}

func ExclusiveLock(key string) Lock { return Lock{Key: key} }

func SharedLock(key string) Lock { return Lock{Key: key, Shared: true} }

// normalizeLocks sorts by key and merges duplicates, exclusive winning, so
// two writers never wait on each other in opposite order.
func normalizeLocks(locks []Lock) []Lock {
	merged := make(map[string]bool, len(locks))
	for _, l := range locks {
		shared, seen := merged[l.Key]
		merged[l.Key] = l.Shared && (!seen || shared)
	}
	out := make([]Lock, 0, len(merged))
	for key, shared := range merged {
		out = append(out, Lock{Key: key, Shared: shared})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// WithLockedTx runs fn inside a transaction that first takes every lock.
// The locks are released on commit or rollback.
func WithLockedTx(ctx context.Context, db PgxIface, locks []Lock, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	for _, l := range normalizeLocks(locks) {
		query := "SELECT pg_advisory_xact_lock(hashtext($1))"
		if l.Shared {
			query = "SELECT pg_advisory_xact_lock_shared(hashtext($1))"
		}
		if _, err = tx.Exec(ctx, query, l.Key); err != nil {
			return fmt.Errorf("advisory lock %s: %w", l.Key, err)
		}
	}

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
