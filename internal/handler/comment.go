package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/chatterhq/chatter/internal/httperr"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/security/audit"
	"github.com/chatterhq/chatter/internal/security/middleware"
	"github.com/chatterhq/chatter/internal/service"
	"github.com/chatterhq/chatter/internal/validation"
)

// CreateCommentRequest is the new-comment payload.
type CreateCommentRequest struct {
	Text  string `json:"text" validate:"required"`
	Image string `json:"image"`
}

// UpdateCommentRequest is the comment patch; nil fields are left alone.
type UpdateCommentRequest struct {
	Text  *string `json:"text"`
	Image *string `json:"image"`
}

// CommentHandler handles the comment CRUD surface.
type CommentHandler struct {
	comments *service.CommentService
	validate *validation.Validator
	audit    *audit.Logger
	logger   *slog.Logger
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments *service.CommentService, validate *validation.Validator, auditLog *audit.Logger, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		validate: validate,
		audit:    auditLog,
		logger:   logger,
	}
}

// Create handles POST /comments/{postId}. The post id is checked before
// anything is written.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		httperr.InvalidID(w, h.logger, "Create Comment")
		return
	}
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Create comment", service.ErrUserNotFound)
		return
	}

	req, err := decodeBody[CreateCommentRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), caller, postID, req.Text, req.Image)
	if err != nil {
		httperr.Write(w, h.logger, "Create comment", err)
		return
	}

	metrics.ObserveCommentCreated()
	writeJSON(w, h.logger, http.StatusCreated, comment)
}

// Get handles GET /comments/{id}.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Find Comment")
		return
	}

	comment, err := h.comments.GetComment(r.Context(), id)
	if err != nil {
		httperr.Write(w, h.logger, "Get one comment", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, comment)
}

// Update handles PUT /comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Update Comment")
		return
	}
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Update comment", service.ErrCommentEditForbidden)
		return
	}

	req, err := decodeBody[UpdateCommentRequest](h.validate, r)
	if err != nil {
		httperr.Write(w, h.logger, "Validation", err)
		return
	}

	comment, err := h.comments.UpdateComment(r.Context(), id, caller, domain.CommentUpdate{
		Text:  req.Text,
		Image: req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrCommentEditForbidden) {
			h.audit.LogDenied(r.Context(), caller.Hex(), "comment", id.Hex())
		}
		httperr.Write(w, h.logger, "Update comment", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, comment)
}

// Delete handles DELETE /comments/{id}. A second delete of the same id
// reports "Comment not found", never a silent 204.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httperr.InvalidID(w, h.logger, "Delete Comment")
		return
	}
	caller, ok := middleware.CallerID(r.Context())
	if !ok {
		httperr.Write(w, h.logger, "Delete comment", service.ErrCommentDeleteForbidden)
		return
	}

	if err := h.comments.DeleteComment(r.Context(), id, caller); err != nil {
		if errors.Is(err, service.ErrCommentDeleteForbidden) {
			h.audit.LogDenied(r.Context(), caller.Hex(), "comment", id.Hex())
		}
		httperr.Write(w, h.logger, "Delete comment", err)
		return
	}

	writeJSON(w, h.logger, http.StatusNoContent, nil)
}
