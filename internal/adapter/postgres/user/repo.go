// Package user implements the User repository using PostgreSQL.
package user

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

const userColumns = "id, external_id, username, email, name, avatar_url, password_hash, created_at, updated_at"

// Repo provides user and follow-edge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// User operations
// ---------------------------------------------------------------------------

// Upsert inserts a profile keyed by the identity provider's external id, or
// refreshes username/email/name/avatar when the id is already known. The
// password hash is never touched here; it only changes through Update.
func (r *Repo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	sql, args, err := qb.Insert("users").
		Columns("id", "external_id", "username", "email", "name", "avatar_url").
		Values(u.ID, u.ExternalID, u.Username, u.Email, u.Name, u.AvatarURL).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			updated_at = now()
		RETURNING ` + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	var out domain.User
	if err := q.QueryRow(ctx, sql, args...).Scan(
		&out.ID, &out.ExternalID, &out.Username, &out.Email, &out.Name,
		&out.AvatarURL, &out.PasswordHash, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, postgres.MapError(err, "user", u.ExternalID)
	}

	return &out, nil
}

// GetByExternalID returns a user by the identity provider's id.
func (r *Repo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(userColumns).
		From("users").
		Where(sq.Eq{"external_id": externalID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out domain.User
	if err := q.QueryRow(ctx, sql, args...).Scan(
		&out.ID, &out.ExternalID, &out.Username, &out.Email, &out.Name,
		&out.AvatarURL, &out.PasswordHash, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, postgres.MapError(err, "user", externalID)
	}

	return &out, nil
}

// List returns all registered users, newest first.
func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(userColumns).
		From("users").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "user", "")
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.ExternalID, &u.Username, &u.Email, &u.Name,
			&u.AvatarURL, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return out, nil
}

// UpdateParams carries the mutable profile fields. Nil means "leave as is".
type UpdateParams struct {
	Name         *string
	AvatarURL    *string
	PasswordHash *string
}

// Update modifies the profile of the given user.
func (r *Repo) Update(ctx context.Context, externalID string, params UpdateParams) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := qb.Update("users").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"external_id": externalID}).
		Suffix("RETURNING " + userColumns)
	if params.Name != nil {
		b = b.Set("name", *params.Name)
	}
	if params.AvatarURL != nil {
		b = b.Set("avatar_url", *params.AvatarURL)
	}
	if params.PasswordHash != nil {
		b = b.Set("password_hash", *params.PasswordHash)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var out domain.User
	if err := q.QueryRow(ctx, sql, args...).Scan(
		&out.ID, &out.ExternalID, &out.Username, &out.Email, &out.Name,
		&out.AvatarURL, &out.PasswordHash, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return nil, postgres.MapError(err, "user", externalID)
	}

	return &out, nil
}

// Delete removes a user. Content keyed by the external id cascades away.
func (r *Repo) Delete(ctx context.Context, externalID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("users").
		Where(sq.Eq{"external_id": externalID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", externalID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", externalID, domain.ErrNotFound)
	}

	return nil
}

// ProfilesByExternalIDs batch-loads public profiles, keyed by external id.
// Unknown ids are simply absent from the result.
func (r *Repo) ProfilesByExternalIDs(ctx context.Context, externalIDs []string) (map[string]domain.Profile, error) {
	if len(externalIDs) == 0 {
		return map[string]domain.Profile{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("external_id", "username", "name").
		From("users").
		Where(sq.Eq{"external_id": externalIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "user", "")
	}
	defer rows.Close()

	out := make(map[string]domain.Profile, len(externalIDs))
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ExternalID, &p.Username, &p.Name); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out[p.ExternalID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return out, nil
}

// ---------------------------------------------------------------------------
// Follow edges
// ---------------------------------------------------------------------------

// Follow records that follower follows followee. Following twice is an
// ErrAlreadyExists; following yourself trips the table check constraint and
// maps to ErrValidation.
func (r *Repo) Follow(ctx context.Context, followerID, followeeID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert("follows").
		Columns("follower_id", "followee_id").
		Values(followerID, followeeID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "follow", followerID)
	}

	return nil
}

// Unfollow removes the follow edge. Removing a missing edge is ErrNotFound.
func (r *Repo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("follows").
		Where(sq.Eq{"follower_id": followerID, "followee_id": followeeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "follow", followerID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("follow %s -> %s: %w", followerID, followeeID, domain.ErrNotFound)
	}

	return nil
}

// ListFollowing returns the external ids the given user follows.
func (r *Repo) ListFollowing(ctx context.Context, followerID string) ([]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("followee_id").
		From("follows").
		Where(sq.Eq{"follower_id": followerID}).
		OrderBy("followee_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "follow", followerID)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan followee: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follows: %w", err)
	}

	return out, nil
}
