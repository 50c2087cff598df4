package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
	postsvc "github.com/devverse/devverse-backend/internal/service/post"
)

// postService defines the minimal interface needed by PostsHandler.
type postService interface {
	CreatePost(ctx context.Context, input postsvc.CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	UpdatePost(ctx context.Context, input postsvc.UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
	Search(ctx context.Context, query string) ([]domain.Post, error)
	Like(ctx context.Context, postID uuid.UUID) error
	Unlike(ctx context.Context, postID uuid.UUID) error
	AddComment(ctx context.Context, postID uuid.UUID, text string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error
	Report(ctx context.Context, postID uuid.UUID, reason string) (*domain.Report, error)
	SavePost(ctx context.Context, postID uuid.UUID) error
	UnsavePost(ctx context.Context, postID uuid.UUID) error
	ListSaved(ctx context.Context) ([]domain.Post, error)
}

// PostsHandler serves the post feed REST endpoints.
type PostsHandler struct {
	svc       postService
	log       *slog.Logger
	maxUpload int64
}

// NewPostsHandler creates a PostsHandler. maxUpload bounds the multipart
// form size of the create endpoint, image included.
func NewPostsHandler(svc postService, logger *slog.Logger, maxUpload int64) *PostsHandler {
	return &PostsHandler{
		svc:       svc,
		log:       logger.With("handler", "posts"),
		maxUpload: maxUpload,
	}
}

// Create handles POST /api/posts. The body is multipart form data with
// a "text" field, an optional comma separated "tags" field and an
// optional "image" file part.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	input := postsvc.CreatePostInput{
		Text: r.FormValue("text"),
		Tags: splitTags(r.FormValue("tags")),
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		input.Image = file
		input.ImageName = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	post, err := h.svc.CreatePost(r.Context(), input)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

// List handles GET /api/posts. An optional "author" query parameter
// restricts the feed to a single author.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		posts []domain.Post
		err   error
	)
	if author := r.URL.Query().Get("author"); author != "" {
		posts, err = h.svc.ListByAuthor(r.Context(), author)
	} else {
		posts, err = h.svc.ListPosts(r.Context())
	}
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(posts))
}

// Get handles GET /api/posts/{id}.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	post, err := h.svc.GetPost(r.Context(), id)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

type updatePostRequest struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

// Update handles PUT /api/posts/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.svc.UpdatePost(r.Context(), postsvc.UpdatePostInput{
		PostID: id,
		Text:   req.Text,
		Tags:   req.Tags,
	})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeletePost(r.Context(), id); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Search handles GET /api/posts/search?q=term.
func (h *PostsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	posts, err := h.svc.Search(r.Context(), query)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(posts))
}

// Like handles POST /api/posts/{id}/like. Liking a post twice is a
// client mistake and reported as a bad request rather than a conflict.
func (h *PostsHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Like(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, http.StatusBadRequest, "post already liked")
			return
		}
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "liked"})
}

// Unlike handles POST /api/posts/{id}/unlike.
func (h *PostsHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Unlike(r.Context(), id); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unliked"})
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /api/posts/{id}/comments.
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.svc.AddComment(r.Context(), id, req.Text)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(*comment))
}

// DeleteComment handles DELETE /api/posts/{id}/comments/{commentId}.
func (h *PostsHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(r.PathValue("commentId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.svc.DeleteComment(r.Context(), commentID); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type reportRequest struct {
	Reason string `json:"reason"`
}

// Report handles POST /api/posts/{id}/report.
func (h *PostsHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.svc.Report(r.Context(), id, req.Reason); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reported"})
}

// Save handles POST /api/posts/{id}/save.
func (h *PostsHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.svc.SavePost(r.Context(), id); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Unsave handles POST /api/posts/{id}/unsave.
func (h *PostsHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	if err := h.svc.UnsavePost(r.Context(), id); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unsaved"})
}

// ListSaved handles GET /api/posts/saved.
func (h *PostsHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListSaved(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPostListResponse(posts))
}

func parsePostID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return uuid.Nil, false
	}
	return id, true
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
