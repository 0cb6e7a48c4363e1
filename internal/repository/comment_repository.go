package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepository implements domain.CommentRepository on the
// comments collection.
type MongoCommentRepository struct {
	c      *mongo.Collection
	logger *slog.Logger
}

// NewMongoCommentRepository creates a new comment repository.
func NewMongoCommentRepository(db *mongo.Database, logger *slog.Logger) *MongoCommentRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoCommentRepository{
		c:      db.Collection("comments"),
		logger: logger,
	}
}

// Create inserts a new comment.
func (r *MongoCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	comment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, comment); err != nil {
		r.logger.Error("failed to create comment",
			slog.String("post", comment.Post.Hex()),
			slog.String("error", err.Error()),
		)
		return wrapErr(err)
	}
	return nil
}

// GetByID retrieves a comment by id.
func (r *MongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, wrapErr(err)
	}
	return &comment, nil
}

// UpdateOwned patches a comment in one filtered update scoped by id and
// owner. Returns domain.ErrNotFound when the filter matched nothing.
func (r *MongoCommentRepository) UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, upd domain.CommentUpdate) (*domain.Comment, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Text != nil {
		set["text"] = *upd.Text
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment domain.Comment
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, bson.M{"$set": set}, opts).Decode(&comment)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &comment, nil
}

// DeleteOwned removes a comment in one filtered delete scoped by id and
// owner. Returns domain.ErrNotFound when the filter matched nothing.
func (r *MongoCommentRepository) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByPost removes every comment attached to the given post.
func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.DeletedCount, nil
}
