package post

import (
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
)

const (
	maxTextLength    = 5000
	maxTagCount      = 10
	maxCommentLength = 1000
)

// CreatePostInput holds the parameters for creating a post. Image is an
// optional upload stream; when set it is pushed to the CDN first.
type CreatePostInput struct {
	Text      string
	Tags      []string
	Image     io.Reader
	ImageName string
}

// Validate checks all fields and collects all errors.
func (i CreatePostInput) Validate() error {
	var errs []domain.FieldError

	text := strings.TrimSpace(i.Text)
	if text == "" && i.Image == nil {
		errs = append(errs, domain.FieldError{Field: "text", Message: "text or image required"})
	}
	if len(text) > maxTextLength {
		errs = append(errs, domain.FieldError{Field: "text", Message: "max 5000 characters"})
	}
	if len(i.Tags) > maxTagCount {
		errs = append(errs, domain.FieldError{Field: "tags", Message: "max 10 tags"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdatePostInput holds the parameters for editing a post.
type UpdatePostInput struct {
	PostID uuid.UUID
	Text   string
	Tags   []string
}

// Validate checks all fields and collects all errors.
func (i UpdatePostInput) Validate() error {
	var errs []domain.FieldError

	if i.PostID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "post_id", Message: "required"})
	}
	text := strings.TrimSpace(i.Text)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if len(text) > maxTextLength {
		errs = append(errs, domain.FieldError{Field: "text", Message: "max 5000 characters"})
	}
	if len(i.Tags) > maxTagCount {
		errs = append(errs, domain.FieldError{Field: "tags", Message: "max 10 tags"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// normalizeTags trims, lowercases and dedupes tags, dropping empties.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
