package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateGroupCreatorIsSoleManager(t *testing.T) {
	s := NewGroupService(newMemGroupRepo(), nil)
	creator := primitive.NewObjectID()

	group, err := s.Create(context.Background(), creator, "gophers", "a place to talk Go")
	if err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if len(group.Users) != 1 {
		t.Fatalf("expected exactly one member, got %d", len(group.Users))
	}
	if group.Users[0].User != creator || group.Users[0].Role != domain.GroupRoleManager {
		t.Fatalf("creator must be the sole Manager, got %+v", group.Users[0])
	}
	if group.ChatRoom == "" {
		t.Fatalf("expected chat room id assigned")
	}
	if group.Posts == nil || len(group.Posts) != 0 {
		t.Fatalf("expected empty posts list, got %v", group.Posts)
	}
}

func TestCreateGroupDuplicateName(t *testing.T) {
	s := NewGroupService(newMemGroupRepo(), nil)
	ctx := context.Background()

	if _, err := s.Create(ctx, primitive.NewObjectID(), "gophers", "first"); err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	_, err := s.Create(ctx, primitive.NewObjectID(), "gophers", "second")
	if !errors.Is(err, ErrGroupNameTaken) {
		t.Fatalf("expected ErrGroupNameTaken, got %v", err)
	}
}

func TestGetAllByUserIDEmpty(t *testing.T) {
	s := NewGroupService(newMemGroupRepo(), nil)

	groups, err := s.GetAllByUserID(context.Background(), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	// No memberships is an empty slice, never nil and never an error.
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty slice, got %v", groups)
	}
}

func TestGetAllByUserIDReturnsMemberships(t *testing.T) {
	s := NewGroupService(newMemGroupRepo(), nil)
	ctx := context.Background()
	creator := primitive.NewObjectID()

	if _, err := s.Create(ctx, creator, "gophers", "go talk"); err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if _, err := s.Create(ctx, creator, "rustaceans", "other talk"); err != nil {
		t.Fatalf("create group failed: %v", err)
	}
	if _, err := s.Create(ctx, primitive.NewObjectID(), "strangers", "not mine"); err != nil {
		t.Fatalf("create group failed: %v", err)
	}

	groups, err := s.GetAllByUserID(ctx, creator)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
}
