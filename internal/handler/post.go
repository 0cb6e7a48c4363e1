package handler

import (
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/chatterhq/chatter/internal/httperr"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/security/middleware"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
)

// PostContentPayload is one content block: text plus an optional image.
type PostContentPayload struct {
	Text  string `json:"text" validate:"required"`
	Image string `json:"image"`
}

// CreatePostRequest is the new-post payload.
type CreatePostRequest struct {
	Title      string             `json:"title" validate:"required"`
	ActivePost PostContentPayload `json:"activePost" validate:"required"`
}

// UpdatePostRequest is the post patch. A new title applies directly; new
// content goes in as an edit proposal, never straight into activePost.
type UpdatePostRequest struct {
	Title       string              `json:"title"`
	EditPropose *PostContentPayload `json:"editPropose" validate:"omitempty"`
}

// PostHandler handles the post CRUD surface. It also keeps the standalone
// content-item collection in step with the embedded post documents.
type PostHandler struct {
	posts    *service.PostService
	bodies   *service.PostBodyService
	validate *validation.Validator
	logger   *slog.Logger
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts *service.PostService, bodies *service.PostBodyService, validate *validation.Validator, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:    posts,
		bodies:   bodies,
		validate: validate,
		logger:   logger,
	}
}

// Create handles POST /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Create a new Post", service.ErrUserNotFound)
		return
	}

	req, err := decodeBody[CreatePostRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), caller, req.Title, domain.PostContent{
		Text:  req.ActivePost.Text,
		Image: req.ActivePost.Image,
	})
	if err != nil {
		httperr.Write(w, h.logger, "Create a new Post", err)
		return
	}

	// Mirror the content into the standalone content-item collection; the
	// embedded document remains canonical, so a mirror failure is logged
	// and not surfaced.
	if _, err := h.bodies.CreatePostBody(r.Context(), &domain.PostBody{
		Title: req.Title,
		Text:  req.ActivePost.Text,
		Image: req.ActivePost.Image,
		Owner: caller,
		Post:  &post.ID,
	}); err != nil {
		h.logger.Error("failed to mirror post content",
			slog.String("post_id", post.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	metrics.ObservePostCreated()
	writeJSON(w, h.logger, http.StatusCreated, post)
}

// Get handles GET /posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Get one post")
		return
	}

	post, err := h.posts.GetPost(r.Context(), id)
	if err != nil {
		httperr.Write(w, h.logger, "Get one post", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, post)
}

// Update handles PUT /posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Update post")
		return
	}
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Update post", service.ErrNotPostOwner)
		return
	}

	req, err := decodeBody[UpdatePostRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	upd := domain.PostUpdate{Title: req.Title}
	if req.EditPropose != nil {
		upd.EditPropose = &domain.PostContent{
			Text:  req.EditPropose.Text,
			Image: req.EditPropose.Image,
		}
	}

	post, err := h.posts.UpdatePost(r.Context(), id, caller, upd)
	if err != nil {
		httperr.Write(w, h.logger, "Update post", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, post)
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Delete post")
		return
	}
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Delete post", service.ErrNotPostOwner)
		return
	}

	if err := h.posts.DeletePost(r.Context(), id, caller); err != nil {
		httperr.Write(w, h.logger, "Delete post", err)
		return
	}

	if n, err := h.bodies.DeleteByPost(r.Context(), id); err != nil {
		h.logger.Error("failed to cascade content items",
			slog.String("post_id", id.Hex()),
			slog.String("error", err.Error()),
		)
	} else if n > 0 {
		h.logger.Info("content items deleted with post",
			slog.String("post_id", id.Hex()),
			slog.Int64("count", n),
		)
	}

	writeJSON(w, h.logger, http.StatusNoContent, nil)
}
