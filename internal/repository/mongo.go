package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client for the given URI and verifies the connection
// with a ping before returning the named database handle.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	ctxConn, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctxConn, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctxConn, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if logger != nil {
		logger.Info("mongodb connected", slog.String("database", database))
	}

	return client, client.Database(database), nil
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on.
// Safe to call on every startup; index creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	if _, err := db.Collection("groups").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create groups.name index: %w", err)
	}

	if _, err := db.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create comments.post index: %w", err)
	}

	if _, err := db.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create posts.owner index: %w", err)
	}

	return nil
}

// wrapErr maps driver errors onto the domain sentinels so no caller has
// to match on error message text.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrDuplicateKey
	default:
		return err
	}
}
