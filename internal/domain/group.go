package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GroupRole is the role of a user inside a group.
type GroupRole string

const (
	GroupRoleManager   GroupRole = "Manager"
	GroupRoleModerator GroupRole = "Moderator"
	GroupRoleVeteran   GroupRole = "Veteran"
	GroupRoleNewUser   GroupRole = "New user"
)

// GroupMember pairs a user reference with their role in the group.
type GroupMember struct {
	User primitive.ObjectID `bson:"user" json:"user"`
	Role GroupRole          `bson:"role" json:"role"`
}

// Group is a named community with role-tagged members, a chat-room
// identifier, and references to the posts shared in it.
type Group struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Users       []GroupMember        `bson:"users" json:"users"`
	ChatRoom    string               `bson:"chatRoom" json:"chatRoom"`
	Posts       []primitive.ObjectID `bson:"posts" json:"posts"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// GroupRepository defines data access for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *Group) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Group, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]Group, error)
}
