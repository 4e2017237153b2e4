package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homebuddy/homebuddy-api/internal/domain"
)

type MessageRepo interface {
	Create(ctx context.Context, in *domain.CreateMessageRequest) (*domain.Message, error)
	FindByID(ctx context.Context, id int64) (*domain.Message, error)
	List(ctx context.Context) ([]domain.Message, error)
	MarkRead(ctx context.Context, id int64) (*domain.Message, error)
}

type MessageRepoImpl struct{ pool *pgxpool.Pool }

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepoImpl { return &MessageRepoImpl{pool: pool} }

const messageCols = `id, name, email, phone, message, is_read, created_at`

func (r *MessageRepoImpl) Create(ctx context.Context, in *domain.CreateMessageRequest) (*domain.Message, error) {
	const q = `
INSERT INTO messages (name, email, phone, message)
VALUES ($1,$2,$3,$4)
RETURNING ` + messageCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var m domain.Message
	err := r.pool.QueryRow(ctx, q, in.Name, in.Email, in.Phone, in.Message).Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	const q = `SELECT ` + messageCols + ` FROM messages WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var m domain.Message
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepoImpl) List(ctx context.Context) ([]domain.Message, error) {
	const q = `SELECT ` + messageCols + ` FROM messages ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ms := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func (r *MessageRepoImpl) MarkRead(ctx context.Context, id int64) (*domain.Message, error) {
	const q = `UPDATE messages SET is_read=true WHERE id=$1 RETURNING ` + messageCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var m domain.Message
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.Read, &m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

var _ MessageRepo = (*MessageRepoImpl)(nil)
