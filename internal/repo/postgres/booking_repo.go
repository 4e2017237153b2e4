package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuddy/homebuddy-api/internal/domain"
)

type BookingRepo interface {
	Create(ctx context.Context, in *domain.CreateBookingRequest, status domain.BookingStatus) (*domain.Booking, error)
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, status *domain.BookingStatus, since *time.Time) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
}

type BookingRepoImpl struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepoImpl { return &BookingRepoImpl{pool: pool} }

const bookingCols = `id, name, email, phone, service, preferred_date_time, message, status, created_at`

func (r *BookingRepoImpl) Create(ctx context.Context, in *domain.CreateBookingRequest, status domain.BookingStatus) (*domain.Booking, error) {
	const q = `
INSERT INTO bookings (name, email, phone, service, preferred_date_time, message, status)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + bookingCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b domain.Booking
	err := r.pool.QueryRow(ctx, q,
		in.Name, in.Email, in.Phone, in.Service, in.PreferredDateTime, in.Message, status,
	).Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Service, &b.PreferredDateTime, &b.Message, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Service, &b.PreferredDateTime, &b.Message, &b.Status, &b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List filters by status and/or a creation-time lower bound; nil means
// unfiltered on that axis.
func (r *BookingRepoImpl) List(ctx context.Context, status *domain.BookingStatus, since *time.Time) ([]domain.Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings
WHERE ($1::text IS NULL OR status = $1)
  AND ($2::timestamptz IS NULL OR created_at >= $2)
ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q, status, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bs := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Email, &b.Phone, &b.Service, &b.PreferredDateTime, &b.Message, &b.Status, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		bs = append(bs, b)
	}
	return bs, rows.Err()
}

func (r *BookingRepoImpl) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	const q = `UPDATE bookings SET status=$2 WHERE id=$1 RETURNING ` + bookingCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b domain.Booking
	err := r.pool.QueryRow(ctx, q, id, status).Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.Service, &b.PreferredDateTime, &b.Message, &b.Status, &b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepo = (*BookingRepoImpl)(nil)
