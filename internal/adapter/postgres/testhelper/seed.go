package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devverse/devverse-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with generated identity and contact fields.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:         uuid.New(),
		ExternalID: "user_" + suffix,
		Username:   "testuser-" + suffix,
		Email:      "testuser-" + suffix + "@example.com",
		Name:       "Test User " + suffix,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, external_id, username, email, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.ExternalID, user.Username, user.Email, user.Name, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedPost creates a post authored by the given external user id.
// Returns a filled domain.Post.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID, text string) domain.Post {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	post := domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Text:      text,
		Tags:      []string{"go", "testing"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, text, tags, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.AuthorID, post.Text, post.Tags, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost insert post: %v", err)
	}

	return post
}

// SeedMessage inserts a direct message with a server-side timestamp and
// returns its id.
func SeedMessage(t *testing.T, pool *pgxpool.Pool, sender, receiver, body string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO messages (id, sender_id, receiver_id, body) VALUES ($1, $2, $3, $4)`,
		id, sender, receiver, body,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMessage insert: %v", err)
	}
	return id
}
