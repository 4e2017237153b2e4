package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuddy/homebuddy-api/internal/domain"
)

type AdminRepo interface {
	Create(ctx context.Context, username, passwordHash, email string, role domain.AdminRole, active bool) (*domain.Admin, error)
	FindByUsername(ctx context.Context, username string) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id int64) (*domain.Admin, error)
	Count(ctx context.Context) (int64, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Admin, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (*domain.Admin, error)
	List(ctx context.Context) ([]domain.Admin, error)
}

type AdminRepoImpl struct{ pool *pgxpool.Pool }

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepoImpl { return &AdminRepoImpl{pool: pool} }

const adminCols = `id, username, password_hash, email, role, active, created_at, updated_at`

// mapUniqueViolation turns the admins table's unique constraint violations
// into domain errors so concurrent creates surface as duplicates, not crashes.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return domain.ErrDuplicateUsername
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return domain.ErrDuplicateEmail
		}
	}
	return err
}

func (r *AdminRepoImpl) Create(ctx context.Context, username, passwordHash, email string, role domain.AdminRole, active bool) (*domain.Admin, error) {
	const q = `
INSERT INTO admins (username, password_hash, email, role, active)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + adminCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var a domain.Admin
	if err := r.pool.QueryRow(ctx, q, username, passwordHash, email, role, active).Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, mapUniqueViolation(err)
	}
	return &a, nil
}

func (r *AdminRepoImpl) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE username=$1`
	return r.findOne(ctx, q, username)
}

func (r *AdminRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE email=$1`
	return r.findOne(ctx, q, email)
}

func (r *AdminRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE id=$1`
	return r.findOne(ctx, q, id)
}

func (r *AdminRepoImpl) findOne(ctx context.Context, q string, arg any) (*domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var a domain.Admin
	err := r.pool.QueryRow(ctx, q, arg).Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepoImpl) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM admins`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int64
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *AdminRepoImpl) SetActive(ctx context.Context, id int64, active bool) (*domain.Admin, error) {
	const q = `UPDATE admins SET active=$2, updated_at=now() WHERE id=$1 RETURNING ` + adminCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var a domain.Admin
	err := r.pool.QueryRow(ctx, q, id, active).Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepoImpl) UpdatePassword(ctx context.Context, id int64, passwordHash string) (*domain.Admin, error) {
	const q = `UPDATE admins SET password_hash=$2, updated_at=now() WHERE id=$1 RETURNING ` + adminCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var a domain.Admin
	err := r.pool.QueryRow(ctx, q, id, passwordHash).Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepoImpl) List(ctx context.Context) ([]domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	as := make([]domain.Admin, 0)
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(
			&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		as = append(as, a)
	}
	return as, rows.Err()
}

var _ AdminRepo = (*AdminRepoImpl)(nil)
