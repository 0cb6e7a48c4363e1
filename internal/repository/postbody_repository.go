package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// postBodyType discriminates post-body documents in their collection.
const postBodyType = "PostBody"

// MongoPostBodyRepository implements domain.PostBodyRepository on the
// postbodies collection.
type MongoPostBodyRepository struct {
	c      *mongo.Collection
	logger *slog.Logger
}

// NewMongoPostBodyRepository creates a new post-body repository.
func NewMongoPostBodyRepository(db *mongo.Database, logger *slog.Logger) *MongoPostBodyRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoPostBodyRepository{
		c:      db.Collection("postbodies"),
		logger: logger,
	}
}

// Create inserts a new post body. Status defaults to pending when unset.
func (r *MongoPostBodyRepository) Create(ctx context.Context, body *domain.PostBody) error {
	body.ID = primitive.NewObjectID()
	body.PostType = postBodyType
	if body.Status == "" {
		body.Status = domain.PostBodyStatusPending
	}
	now := time.Now().UTC()
	body.CreatedAt = now
	body.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, body); err != nil {
		r.logger.Error("failed to create post body",
			slog.String("owner", body.Owner.Hex()),
			slog.String("error", err.Error()),
		)
		return wrapErr(err)
	}
	return nil
}

// DeleteOne removes a post body by id.
func (r *MongoPostBodyRepository) DeleteOne(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByPost removes every post body attached to the given parent post.
func (r *MongoPostBodyRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.DeletedCount, nil
}
