// Package notification implements the Notification store using PostgreSQL.
package notification

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/devverse/devverse-backend/internal/adapter/postgres"
	"github.com/devverse/devverse-backend/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Append persists a new unread notification for userID. The record is durable
// when Append returns; created_at is assigned by the database.
func (r *Repo) Append(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error) {
	if !typ.Valid() {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown notification type %q", typ))
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	n := domain.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    typ,
		Message: text,
	}

	sql, args, err := qb.Insert("notifications").
		Columns("id", "user_id", "type", "message").
		Values(n.ID, n.UserID, n.Type, n.Message).
		Suffix("RETURNING is_read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&n.IsRead, &n.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "notification", n.ID.String())
	}

	return &n, nil
}

// ListFor returns all notifications addressed to userID, newest first.
func (r *Repo) ListFor(ctx context.Context, userID string) ([]domain.Notification, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("id", "user_id", "type", "message", "is_read", "created_at").
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "notification", userID)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return out, nil
}

// MarkReadByID marks a single notification as read. The userID guard keeps
// one user from flipping another's flags; a mismatch reads as not found.
func (r *Repo) MarkReadByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Notification, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING id, user_id, type, message, is_read, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var n domain.Notification
	if err := q.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "notification", id.String())
	}

	return &n, nil
}

// MarkRead marks every notification of userID as read and returns the number
// of rows affected.
func (r *Repo) MarkRead(ctx context.Context, userID string) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update("notifications").
		Set("is_read", true).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "notification", userID)
	}

	return tag.RowsAffected(), nil
}

// DeleteReadOlderThan removes read notifications created before the cutoff.
// Used by the retention job; unread notifications are never purged.
func (r *Repo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("notifications").
		Where(sq.Eq{"is_read": true}).
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "notification", "")
	}

	return tag.RowsAffected(), nil
}
