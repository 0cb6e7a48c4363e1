package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a user comment attached to a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CommentUpdate patches text and/or image. Nil fields are left untouched.
type CommentUpdate struct {
	Text  *string
	Image *string
}

// CommentRepository defines data access for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Comment, error)
	UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, upd CommentUpdate) (*Comment, error)
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error
	// DeleteByPost removes every comment of a post, for post-deletion cascade.
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}
