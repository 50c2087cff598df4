// Package post implements the Post repository using PostgreSQL.
//
// Likes and comments live in side tables and are batch-loaded onto posts by
// hydrate, so list endpoints issue a fixed number of queries regardless of
// page size.
package post

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

const postColumns = "id, author_id, text, image_url, tags, created_at, updated_at"

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

// Create inserts a new post and returns the persisted record.
func (r *Repo) Create(ctx context.Context, authorID, text string, imageURL *string, tags []string) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if tags == nil {
		tags = []string{}
	}

	p := domain.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Text:     text,
		ImageURL: imageURL,
		Tags:     tags,
	}

	sql, args, err := qb.Insert("posts").
		Columns("id", "author_id", "text", "image_url", "tags").
		Values(p.ID, p.AuthorID, p.Text, p.ImageURL, p.Tags).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, postgres.MapError(err, "post", p.ID.String())
	}

	return &p, nil
}

// GetByID returns a post with its likes and comments loaded.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(postColumns).
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var p domain.Post
	if err := q.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.AuthorID, &p.Text, &p.ImageURL, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, postgres.MapError(err, "post", id.String())
	}

	posts := []domain.Post{p}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

// List returns all posts newest first, likes and comments loaded.
func (r *Repo) List(ctx context.Context) ([]domain.Post, error) {
	return r.list(ctx, sq.Eq{})
}

// ListByAuthor returns one author's posts newest first.
func (r *Repo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	return r.list(ctx, sq.Eq{"author_id": authorID})
}

func (r *Repo) list(ctx context.Context, where sq.Eq) ([]domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := qb.Select(postColumns).
		From("posts").
		OrderBy("created_at DESC", "id DESC")
	if len(where) > 0 {
		b = b.Where(where)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", "")
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Text, &p.ImageURL, &p.Tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	if err := r.hydrate(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

// Update rewrites text, image and tags of the given post.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, text string, imageURL *string, tags []string) (*domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if tags == nil {
		tags = []string{}
	}

	sql, args, err := qb.Update("posts").
		Set("text", text).
		Set("image_url", imageURL).
		Set("tags", tags).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + postColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var p domain.Post
	if err := q.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.AuthorID, &p.Text, &p.ImageURL, &p.Tags, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, postgres.MapError(err, "post", id.String())
	}

	posts := []domain.Post{p}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

// Delete removes a post and, via cascade, its likes, comments and reports.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "post", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Search returns posts whose text or tags match the query, newest first.
func (r *Repo) Search(ctx context.Context, query string) ([]domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	pattern := "%" + query + "%"
	sql, args, err := qb.Select(postColumns).
		From("posts").
		Where(sq.Or{
			sq.ILike{"text": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)", pattern),
		}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "post", "")
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Text, &p.ImageURL, &p.Tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	if err := r.hydrate(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ---------------------------------------------------------------------------
// Likes
// ---------------------------------------------------------------------------

// AddLike records a like. Liking twice returns ErrAlreadyExists.
func (r *Repo) AddLike(ctx context.Context, postID uuid.UUID, userID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert("post_likes").
		Columns("post_id", "user_id").
		Values(postID, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "like", postID.String())
	}

	return nil
}

// RemoveLike undoes a like. Removing a missing like is ErrNotFound.
func (r *Repo) RemoveLike(ctx context.Context, postID uuid.UUID, userID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("post_likes").
		Where(sq.Eq{"post_id": postID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "like", postID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("like on post %s: %w", postID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

// AddComment attaches a comment to a post.
func (r *Repo) AddComment(ctx context.Context, postID uuid.UUID, userID, text string) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	c := domain.Comment{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
		Text:   text,
	}

	sql, args, err := qb.Insert("post_comments").
		Columns("id", "post_id", "user_id", "text").
		Values(c.ID, c.PostID, c.UserID, c.Text).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "comment", c.ID.String())
	}

	return &c, nil
}

// GetComment returns one comment by id.
func (r *Repo) GetComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("id", "post_id", "user_id", "text", "created_at").
		From("post_comments").
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var c domain.Comment
	if err := q.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "comment", commentID.String())
	}

	return &c, nil
}

// DeleteComment removes a comment.
func (r *Repo) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("post_comments").
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "comment", commentID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// AddReport attaches a moderation report to a post.
func (r *Repo) AddReport(ctx context.Context, postID uuid.UUID, userID, reason string) (*domain.Report, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rep := domain.Report{
		ID:     uuid.New(),
		PostID: postID,
		UserID: userID,
		Reason: reason,
	}

	sql, args, err := qb.Insert("post_reports").
		Columns("id", "post_id", "user_id", "reason").
		Values(rep.ID, rep.PostID, rep.UserID, rep.Reason).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if err := q.QueryRow(ctx, sql, args...).Scan(&rep.CreatedAt); err != nil {
		return nil, postgres.MapError(err, "report", rep.ID.String())
	}

	return &rep, nil
}

// ---------------------------------------------------------------------------
// Saved posts
// ---------------------------------------------------------------------------

// Save bookmarks a post for the user. Saving twice is ErrAlreadyExists.
func (r *Repo) Save(ctx context.Context, userID string, postID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert("saved_posts").
		Columns("user_id", "post_id").
		Values(userID, postID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "saved post", postID.String())
	}

	return nil
}

// Unsave removes a bookmark. Removing a missing bookmark is ErrNotFound.
func (r *Repo) Unsave(ctx context.Context, userID string, postID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete("saved_posts").
		Where(sq.Eq{"user_id": userID, "post_id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "saved post", postID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("saved post %s: %w", postID, domain.ErrNotFound)
	}

	return nil
}

// ListSaved returns the user's bookmarked posts, most recently saved first.
func (r *Repo) ListSaved(ctx context.Context, userID string) ([]domain.Post, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("p.id", "p.author_id", "p.text", "p.image_url", "p.tags", "p.created_at", "p.updated_at").
		From("saved_posts sp").
		Join("posts p ON p.id = sp.post_id").
		Where(sq.Eq{"sp.user_id": userID}).
		OrderBy("sp.created_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "saved post", userID)
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Text, &p.ImageURL, &p.Tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	if err := r.hydrate(ctx, out); err != nil {
		return nil, err
	}

	return out, nil
}

// ---------------------------------------------------------------------------
// Hydration
// ---------------------------------------------------------------------------

// hydrate batch-loads likes and comments for the given posts in place.
func (r *Repo) hydrate(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	ids := make([]uuid.UUID, len(posts))
	index := make(map[uuid.UUID]*domain.Post, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = &posts[i]
	}

	sql, args, err := qb.Select("post_id", "user_id").
		From("post_likes").
		Where(sq.Eq{"post_id": ids}).
		OrderBy("created_at", "user_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build likes select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "like", "")
	}
	for rows.Next() {
		var postID uuid.UUID
		var userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			rows.Close()
			return fmt.Errorf("scan like: %w", err)
		}
		if p, ok := index[postID]; ok {
			p.Likes = append(p.Likes, userID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate likes: %w", err)
	}

	sql, args, err = qb.Select("id", "post_id", "user_id", "text", "created_at").
		From("post_comments").
		Where(sq.Eq{"post_id": ids}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build comments select: %w", err)
	}

	rows, err = q.Query(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "comment", "")
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		if p, ok := index[c.PostID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate comments: %w", err)
	}

	return nil
}
