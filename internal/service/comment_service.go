package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed-message comment errors.
var (
	ErrCommentNotFound        = errors.New("Comment not found")
	ErrCommentEditForbidden   = errors.New("You aren't allowed to edit this comment")
	ErrCommentDeleteForbidden = errors.New("You aren't allowed to delete this comment")
)

// CommentService composes the comment store with ownership rules and the
// parent post's comment-reference bookkeeping.
type CommentService struct {
	comments domain.CommentRepository
	posts    domain.PostRepository
	logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(comments domain.CommentRepository, posts domain.PostRepository, logger *slog.Logger) *CommentService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CommentService{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

// CreateComment stores a new comment on a post and records the reference
// on the parent.
func (s *CommentService) CreateComment(ctx context.Context, owner, postID primitive.ObjectID, text, image string) (*domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := &domain.Comment{
		Text:  text,
		Image: image,
		Owner: owner,
		Post:  postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.posts.AddComment(ctx, postID, comment.ID); err != nil {
		s.logger.Error("failed to record comment on post",
			slog.String("post_id", postID.Hex()),
			slog.String("comment_id", comment.ID.Hex()),
			slog.String("error", err.Error()),
		)
	}

	return comment, nil
}

// GetComment loads a comment by id.
func (s *CommentService) GetComment(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// UpdateComment applies an owner-scoped patch in one filtered store call.
func (s *CommentService) UpdateComment(ctx context.Context, id, caller primitive.ObjectID, upd domain.CommentUpdate) (*domain.Comment, error) {
	comment, err := s.comments.UpdateOwned(ctx, id, caller, upd)
	if err == nil {
		return comment, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.comments.GetByID(ctx, id); errors.Is(err, domain.ErrNotFound) {
		return nil, ErrCommentNotFound
	}

	s.logger.Warn("comment update denied",
		slog.String("comment_id", id.Hex()),
		slog.String("caller", caller.Hex()),
	)
	return nil, ErrCommentEditForbidden
}

// DeleteComment removes an owned comment. Deleting a comment that is
// already gone reports ErrCommentNotFound, not success.
func (s *CommentService) DeleteComment(ctx context.Context, id, caller primitive.ObjectID) error {
	err := s.comments.DeleteOwned(ctx, id, caller)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.comments.GetByID(ctx, id); errors.Is(err, domain.ErrNotFound) {
		return ErrCommentNotFound
	}

	s.logger.Warn("comment delete denied",
		slog.String("comment_id", id.Hex()),
		slog.String("caller", caller.Hex()),
	)
	return ErrCommentDeleteForbidden
}
