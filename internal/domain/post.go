package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusPending  PostStatus = "pending"
	PostStatusActive   PostStatus = "active"
	PostStatusInReview PostStatus = "inReview"
)

// PostContent is one content block: the active block, an edit proposal,
// or a superseded entry in the history list.
type PostContent struct {
	Text  string `bson:"text" json:"text"`
	Image string `bson:"image,omitempty" json:"image,omitempty"`
}

// Post is the embedded-content model: one active block, an optional edit
// proposal awaiting promotion, and an ordered history of superseded blocks.
type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Owner       primitive.ObjectID   `bson:"owner" json:"owner"`
	ActivePost  PostContent          `bson:"activePost" json:"activePost"`
	Status      PostStatus           `bson:"status" json:"status"`
	EditPropose *PostContent         `bson:"editPropose,omitempty" json:"editPropose,omitempty"`
	ToUpdate    bool                 `bson:"toUpdate" json:"toUpdate"`
	History     []PostContent        `bson:"history,omitempty" json:"history,omitempty"`
	Comments    []primitive.ObjectID `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PostUpdate is an owner-scoped patch. A non-nil EditPropose records a
// proposal and raises the toUpdate flag; it never overwrites ActivePost.
type PostUpdate struct {
	Title       string
	EditPropose *PostContent
}

// PostRepository defines data access for posts. Mutations that carry an
// owner are filtered by {_id, owner} so the ownership check and the write
// happen in one atomic store operation.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, upd PostUpdate) (*Post, error)
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error
	AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	// ActivatePendingBefore promotes pending posts created before the cutoff
	// to active and reports how many were promoted.
	ActivatePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
