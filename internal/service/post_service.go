package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed-message post errors.
var (
	ErrPostNotFound = errors.New("Post not found")
	ErrNotPostOwner = errors.New("You aren't the owner of this post")
)

// PostService composes the post store with ownership rules and the
// comment cascade.
type PostService struct {
	posts    domain.PostRepository
	comments domain.CommentRepository
	logger   *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(posts domain.PostRepository, comments domain.CommentRepository, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// CreatePost stores a new post owned by the caller. Lifecycle starts at
// pending.
func (s *PostService) CreatePost(ctx context.Context, owner primitive.ObjectID, title string, content domain.PostContent) (*domain.Post, error) {
	post := &domain.Post{
		Title:      title,
		Owner:      owner,
		ActivePost: content,
		Status:     domain.PostStatusPending,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		slog.String("post_id", post.ID.Hex()),
		slog.String("owner", owner.Hex()),
	)
	return post, nil
}

// GetPost loads a post by id.
func (s *PostService) GetPost(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// UpdatePost applies an owner-scoped patch in one filtered store call.
// When nothing matched, one follow-up read distinguishes a missing post
// from somebody else's post; the mutation itself is never racy.
func (s *PostService) UpdatePost(ctx context.Context, id, caller primitive.ObjectID, upd domain.PostUpdate) (*domain.Post, error) {
	post, err := s.posts.UpdateOwned(ctx, id, caller, upd)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.posts.GetByID(ctx, id); errors.Is(err, domain.ErrNotFound) {
		return nil, ErrPostNotFound
	}

	s.logger.Warn("post update denied",
		slog.String("post_id", id.Hex()),
		slog.String("caller", caller.Hex()),
	)
	return nil, ErrNotPostOwner
}

// DeletePost removes an owned post and cascades its comments.
func (s *PostService) DeletePost(ctx context.Context, id, caller primitive.ObjectID) error {
	err := s.posts.DeleteOwned(ctx, id, caller)
	if err == nil {
		if n, cerr := s.comments.DeleteByPost(ctx, id); cerr != nil {
			s.logger.Error("failed to cascade comment deletion",
				slog.String("post_id", id.Hex()),
				slog.String("error", cerr.Error()),
			)
		} else if n > 0 {
			s.logger.Info("comments deleted with post",
				slog.String("post_id", id.Hex()),
				slog.Int64("count", n),
			)
		}
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.posts.GetByID(ctx, id); errors.Is(err, domain.ErrNotFound) {
		return ErrPostNotFound
	}

	s.logger.Warn("post delete denied",
		slog.String("post_id", id.Hex()),
		slog.String("caller", caller.Hex()),
	)
	return ErrNotPostOwner
}
