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

// noPassword excludes the password hash from reads. Credential checks use
// GetByEmailWithPassword explicitly.
var noPassword = bson.M{"password": 0}

// MongoUserRepository implements domain.UserRepository on the users collection.
type MongoUserRepository struct {
	c      *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserRepository creates a new user repository.
func NewMongoUserRepository(db *mongo.Database, logger *slog.Logger) *MongoUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoUserRepository{
		c:      db.Collection("users"),
		logger: logger,
	}
}

// Create inserts a new user. Returns domain.ErrDuplicateKey when the email
// is already taken.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, user); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			r.logger.Error("failed to create user",
				slog.String("email", user.Email),
				slog.String("error", err.Error()),
			)
		}
		return wrapErr(err)
	}
	return nil
}

// GetByID retrieves a user by id, without the password hash.
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	opts := options.FindOne().SetProjection(noPassword)
	if err := r.c.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, without the password hash.
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	opts := options.FindOne().SetProjection(noPassword)
	if err := r.c.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user); err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// GetByEmailWithPassword retrieves a user by email including the password
// hash, for login verification only.
func (r *MongoUserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// Update applies the non-empty fields of upd and returns the updated user
// without the password hash.
func (r *MongoUserRepository) Update(ctx context.Context, id primitive.ObjectID, upd domain.UserUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != "" {
		set["name"] = upd.Name
	}
	if upd.Email != "" {
		set["email"] = upd.Email
	}
	if upd.Password != "" {
		set["password"] = upd.Password
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(noPassword)

	var user domain.User
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &user, nil
}

// Delete removes a user by id.
func (r *MongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
