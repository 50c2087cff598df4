// Package message implements the Message store using PostgreSQL.
// Messages are immutable once appended; the database assigns the timestamp so
// per-pair ordering follows arrival order at the store, not client clocks.
package message

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/devverse/devverse-backend/internal/adapter/postgres"
	"github.com/devverse/devverse-backend/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides message persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new message repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Append persists a new message. The record is durable when Append returns;
// id is generated here, created_at is assigned by the database.
func (r *Repo) Append(ctx context.Context, sender, receiver, text string) (*domain.Message, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	msg := domain.Message{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Body:       text,
	}

	sql, args, err := qb.Insert("messages").
		Columns("id", "sender_id", "receiver_id", "body").
		Values(msg.ID, msg.SenderID, msg.ReceiverID, msg.Body).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&msg.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "message", msg.ID.String())
	}

	return &msg, nil
}

// ListConversation returns every message between userA and userB, in either
// direction, ascending by timestamp.
func (r *Repo) ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("id", "sender_id", "receiver_id", "body", "created_at").
		From("messages").
		Where(sq.Or{
			sq.And{sq.Eq{"sender_id": userA}, sq.Eq{"receiver_id": userB}},
			sq.And{sq.Eq{"sender_id": userB}, sq.Eq{"receiver_id": userA}},
		}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "conversation", userA)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return out, nil
}
