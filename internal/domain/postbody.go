package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostBodyStatus is the lifecycle state of a standalone content item.
type PostBodyStatus string

const (
	PostBodyStatusPending  PostBodyStatus = "pending"
	PostBodyStatusLive     PostBodyStatus = "live"
	PostBodyStatusPast     PostBodyStatus = "past"
	PostBodyStatusInReview PostBodyStatus = "inReview"
)

// PostBody is the alternative content-item representation: a discriminated
// document (text + optional image + owner) that may point back at a parent
// post. The embedded Post model is the canonical one; this collection is
// kept for content items managed independently of their parent.
type PostBody struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostType  string              `bson:"postType" json:"postType"`
	Title     string              `bson:"title,omitempty" json:"title,omitempty"`
	Text      string              `bson:"text" json:"text"`
	Image     string              `bson:"image,omitempty" json:"image,omitempty"`
	Owner     primitive.ObjectID  `bson:"owner" json:"owner"`
	Post      *primitive.ObjectID `bson:"post,omitempty" json:"post,omitempty"`
	Status    PostBodyStatus      `bson:"status" json:"status"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PostBodyRepository defines data access for post bodies. Finding and
// editing go through the parent post; only create and delete are needed.
type PostBodyRepository interface {
	Create(ctx context.Context, body *PostBody) error
	DeleteOne(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}
