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

// MongoPostRepository implements domain.PostRepository on the posts collection.
type MongoPostRepository struct {
	c      *mongo.Collection
	logger *slog.Logger
}

// NewMongoPostRepository creates a new post repository.
func NewMongoPostRepository(db *mongo.Database, logger *slog.Logger) *MongoPostRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoPostRepository{
		c:      db.Collection("posts"),
		logger: logger,
	}
}

// Create inserts a new post. Status defaults to pending when unset.
func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) error {
	post.ID = primitive.NewObjectID()
	if post.Status == "" {
		post.Status = domain.PostStatusPending
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, post); err != nil {
		r.logger.Error("failed to create post",
			slog.String("owner", post.Owner.Hex()),
			slog.String("error", err.Error()),
		)
		return wrapErr(err)
	}
	return nil
}

// GetByID retrieves a post by id.
func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var post domain.Post
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, wrapErr(err)
	}
	return &post, nil
}

// UpdateOwned patches a post in one filtered update scoped by both id and
// owner, so the ownership check and the write are atomic at the store. An
// edit proposal raises the toUpdate flag; the active block is untouched.
// Returns domain.ErrNotFound when the filter matched nothing.
func (r *MongoPostRepository) UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, upd domain.PostUpdate) (*domain.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != "" {
		set["title"] = upd.Title
	}
	if upd.EditPropose != nil {
		set["editPropose"] = upd.EditPropose
		set["toUpdate"] = true
		set["status"] = domain.PostStatusInReview
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post domain.Post
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner": owner}, bson.M{"$set": set}, opts).Decode(&post)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &post, nil
}

// DeleteOwned removes a post in one filtered delete scoped by id and owner.
// Returns domain.ErrNotFound when the filter matched nothing.
func (r *MongoPostRepository) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddComment appends a comment reference to the post's comment set.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$addToSet": bson.M{"comments": commentID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return wrapErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ActivatePendingBefore promotes pending posts created before the cutoff to
// active in a single filtered UpdateMany.
func (r *MongoPostRepository) ActivatePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.c.UpdateMany(ctx,
		bson.M{"status": domain.PostStatusPending, "createdAt": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"status": domain.PostStatusActive, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, wrapErr(err)
	}
	return res.ModifiedCount, nil
}
