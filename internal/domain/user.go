package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupSubscription tracks the last post a user has seen in a group.
type GroupSubscription struct {
	Group    primitive.ObjectID `bson:"group" json:"group"`
	LastSeen primitive.ObjectID `bson:"lastSeen,omitempty" json:"lastSeen,omitempty"`
}

// User represents a registered account. The password hash is never
// serialized to API responses and is excluded from store reads unless a
// caller explicitly asks for it.
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Password          string               `bson:"password,omitempty" json:"-"`
	GroupMembership   []primitive.ObjectID `bson:"groupMembership,omitempty" json:"groupMembership,omitempty"`
	GroupSubscription []GroupSubscription  `bson:"groupSubscription,omitempty" json:"groupSubscription,omitempty"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserUpdate holds the fields a user may change about their own account.
// Empty fields are left untouched.
type UserUpdate struct {
	Name     string
	Email    string
	Password string // already hashed by the service
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByEmailWithPassword includes the password hash, for credential checks.
	GetByEmailWithPassword(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
