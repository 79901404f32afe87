package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facility-rental/internal/data/entity"
	"facility-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RentalFilter narrows a listing. Zero fields do not filter.
type RentalFilter struct {
	RoomID string
	From   string
	To     string
	Phone  string
}

type RentalRepository interface {
	Create(ctx context.Context, rental *entity.RentalRequest) error
	CreateBatch(ctx context.Context, rentals []*entity.RentalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RentalRequest, error)
	FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]*entity.RentalRequest, error)
	FindAll(ctx context.Context, filter RentalFilter) ([]*entity.RentalRequest, error)

	// FindForRoom returns the sessions of roomID that touch [from, to],
	// consolidated gallery rows included.
	FindForRoom(ctx context.Context, roomID, from, to string) ([]*entity.RentalRequest, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RequestStatus, reason string) error
	UpdateDiscount(ctx context.Context, id uuid.UUID, mode string, rate float64, amount int64, reason string) error
}

type rentalRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRentalRepository(db database.Querier, log *zap.Logger) RentalRepository {
	return &rentalRepository{
		db:  db,
		log: log.With(zap.String("repository", "rental")),
	}
}

const rentalColumns = `
	id, room_id, rental_date::text, start_time, end_time,
	applicant_name, applicant_phone, applicant_email, organization, purpose, headcount, pin_hash,
	equipment, status, reject_reason,
	batch_id, batch_seq, batch_size,
	discount_rate::float8, discount_amount, discount_reason, discount_mode,
	is_prep_day,
	COALESCE(gallery_start_date::text, ''), COALESCE(gallery_end_date::text, ''), COALESCE(gallery_prep_date::text, ''),
	gallery_weekday_count, gallery_saturday_count,
	created_at, updated_at`

func scanRental(row scanner) (*entity.RentalRequest, error) {
	var r entity.RentalRequest
	err := row.Scan(
		&r.ID, &r.RoomID, &r.Date, &r.StartTime, &r.EndTime,
		&r.ApplicantName, &r.ApplicantPhone, &r.ApplicantEmail, &r.Organization, &r.Purpose, &r.Headcount, &r.PinHash,
		&r.Equipment, &r.Status, &r.RejectReason,
		&r.BatchID, &r.BatchSeq, &r.BatchSize,
		&r.DiscountRate, &r.DiscountAmount, &r.DiscountReason, &r.DiscountMode,
		&r.IsPrepDay,
		&r.GalleryStartDate, &r.GalleryEndDate, &r.GalleryPrepDate,
		&r.GalleryWeekdayCount, &r.GallerySaturdayCount,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *rentalRepository) collect(rows pgx.Rows) ([]*entity.RentalRequest, error) {
	defer rows.Close()

	var rentals []*entity.RentalRequest
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			r.log.Error("Failed to scan rental", zap.Error(err))
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rentals: %w", err)
	}
	return rentals, nil
}

func (r *rentalRepository) Create(ctx context.Context, rental *entity.RentalRequest) error {
	query := `
		INSERT INTO rental_requests (
			id, room_id, rental_date, start_time, end_time,
			applicant_name, applicant_phone, applicant_email, organization, purpose, headcount, pin_hash,
			equipment, status, reject_reason,
			batch_id, batch_seq, batch_size,
			discount_rate, discount_amount, discount_reason, discount_mode,
			is_prep_day, gallery_start_date, gallery_end_date, gallery_prep_date,
			gallery_weekday_count, gallery_saturday_count,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25, $26,
			$27, $28,
			$29, $30
		)
	`

	equipment := rental.Equipment
	if equipment == nil {
		equipment = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		rental.ID, rental.RoomID, rental.Date, rental.StartTime, rental.EndTime,
		rental.ApplicantName, rental.ApplicantPhone, rental.ApplicantEmail, rental.Organization, rental.Purpose, rental.Headcount, rental.PinHash,
		equipment, rental.Status, rental.RejectReason,
		rental.BatchID, rental.BatchSeq, rental.BatchSize,
		rental.DiscountRate, rental.DiscountAmount, rental.DiscountReason, rental.DiscountMode,
		rental.IsPrepDay, nullIfEmpty(rental.GalleryStartDate), nullIfEmpty(rental.GalleryEndDate), nullIfEmpty(rental.GalleryPrepDate),
		rental.GalleryWeekdayCount, rental.GallerySaturdayCount,
		rental.CreatedAt, rental.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create rental",
			zap.Error(err),
			zap.String("room_id", rental.RoomID),
			zap.String("date", rental.Date),
		)
		return fmt.Errorf("create rental %s: %w", rental.ID, err)
	}

	return nil
}

// CreateBatch inserts every session or none. It must run inside a
// transaction to be atomic.
func (r *rentalRepository) CreateBatch(ctx context.Context, rentals []*entity.RentalRequest) error {
	for _, rental := range rentals {
		if err := r.Create(ctx, rental); err != nil {
			return err
		}
	}
	return nil
}

func (r *rentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE id = $1`

	rental, err := scanRental(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rental by ID", zap.Error(err), zap.String("rental_id", id.String()))
		return nil, fmt.Errorf("find rental %s: %w", id, err)
	}

	return rental, nil
}

func (r *rentalRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) ([]*entity.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + `
		FROM rental_requests
		WHERE batch_id = $1
		ORDER BY batch_seq, rental_date, start_time`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		r.log.Error("Failed to find batch", zap.Error(err), zap.String("batch_id", batchID.String()))
		return nil, fmt.Errorf("find batch %s: %w", batchID, err)
	}
	return r.collect(rows)
}

func (r *rentalRepository) FindAll(ctx context.Context, filter RentalFilter) ([]*entity.RentalRequest, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.RoomID != "" {
		add("room_id = $%d", filter.RoomID)
	}
	if filter.From != "" {
		add("rental_date >= $%d", filter.From)
	}
	if filter.To != "" {
		add("rental_date <= $%d", filter.To)
	}
	if filter.Phone != "" {
		add("applicant_phone = $%d", filter.Phone)
	}

	query := `SELECT ` + rentalColumns + ` FROM rental_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, batch_seq`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list rentals", zap.Error(err))
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	return r.collect(rows)
}

func (r *rentalRepository) FindForRoom(ctx context.Context, roomID, from, to string) ([]*entity.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + `
		FROM rental_requests
		WHERE room_id = $1
		  AND (
			rental_date BETWEEN $2 AND $3
			OR gallery_prep_date BETWEEN $2 AND $3
			OR (gallery_start_date <= $3 AND gallery_end_date >= $2)
		  )
		ORDER BY rental_date, start_time`

	rows, err := r.db.Query(ctx, query, roomID, from, to)
	if err != nil {
		r.log.Error("Failed to find rentals for room",
			zap.Error(err),
			zap.String("room_id", roomID),
			zap.String("from", from),
			zap.String("to", to),
		)
		return nil, fmt.Errorf("find rentals for %s: %w", roomID, err)
	}
	return r.collect(rows)
}

func (r *rentalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.RequestStatus, reason string) error {
	query := `
		UPDATE rental_requests
		SET status = $1, reject_reason = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := r.db.Exec(ctx, query, status, reason, time.Now(), id)
	if err != nil {
		r.log.Error("Failed to update rental status",
			zap.Error(err),
			zap.String("rental_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update rental %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update rental %s status: %w", id, pgx.ErrNoRows)
	}

	return nil
}

func (r *rentalRepository) UpdateDiscount(ctx context.Context, id uuid.UUID, mode string, rate float64, amount int64, reason string) error {
	query := `
		UPDATE rental_requests
		SET discount_mode = $1, discount_rate = $2, discount_amount = $3, discount_reason = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query, mode, rate, amount, reason, time.Now(), id)
	if err != nil {
		r.log.Error("Failed to update rental discount", zap.Error(err), zap.String("rental_id", id.String()))
		return fmt.Errorf("update rental %s discount: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update rental %s discount: %w", id, pgx.ErrNoRows)
	}

	return nil
}
