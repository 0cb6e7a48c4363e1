package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrPostBodyNotFound is returned when a post body does not exist.
var ErrPostBodyNotFound = errors.New("Post body not found")

// PostBodyService manages standalone content items. Editing and finding
// go through the parent post; only create and delete live here.
type PostBodyService struct {
	bodies domain.PostBodyRepository
	logger *slog.Logger
}

// NewPostBodyService creates a new post-body service.
func NewPostBodyService(bodies domain.PostBodyRepository, logger *slog.Logger) *PostBodyService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostBodyService{
		bodies: bodies,
		logger: logger,
	}
}

// CreatePostBody stores a new content item for its owner.
func (s *PostBodyService) CreatePostBody(ctx context.Context, body *domain.PostBody) (*domain.PostBody, error) {
	if err := s.bodies.Create(ctx, body); err != nil {
		return nil, err
	}
	return body, nil
}

// DeleteOneBody removes a content item by the id saved on the parent post.
func (s *PostBodyService) DeleteOneBody(ctx context.Context, id primitive.ObjectID) error {
	if err := s.bodies.DeleteOne(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrPostBodyNotFound
		}
		return err
	}
	return nil
}

// DeleteByPost removes every content item attached to a parent post.
func (s *PostBodyService) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.bodies.DeleteByPost(ctx, postID)
}
