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

// MongoGroupRepository implements domain.GroupRepository on the groups
// collection.
type MongoGroupRepository struct {
	c      *mongo.Collection
	logger *slog.Logger
}

// NewMongoGroupRepository creates a new group repository.
func NewMongoGroupRepository(db *mongo.Database, logger *slog.Logger) *MongoGroupRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoGroupRepository{
		c:      db.Collection("groups"),
		logger: logger,
	}
}

// Create inserts a new group. Returns domain.ErrDuplicateKey when the name
// is already taken.
func (r *MongoGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	group.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, group); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			r.logger.Error("failed to create group",
				slog.String("name", group.Name),
				slog.String("error", err.Error()),
			)
		}
		return wrapErr(err)
	}
	return nil
}

// GetByID retrieves a group by id.
func (r *MongoGroupRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Group, error) {
	var group domain.Group
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&group); err != nil {
		return nil, wrapErr(err)
	}
	return &group, nil
}

// ListByUser returns every group the given user is a member of. An empty
// result is an empty slice, never an error.
func (r *MongoGroupRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Group, error) {
	cur, err := r.c.Find(ctx, bson.M{"users.user": userID})
	if err != nil {
		return nil, wrapErr(err)
	}
	defer cur.Close(ctx)

	groups := []domain.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, wrapErr(err)
	}
	return groups, nil
}
