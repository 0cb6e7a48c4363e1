package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreatePostBodyDefaults(t *testing.T) {
	svc := NewPostBodyService(newMemPostBodyRepo(), nil)

	body, err := svc.CreatePostBody(context.Background(), &domain.PostBody{
		Text:  "standalone",
		Owner: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if body.ID.IsZero() {
		t.Fatalf("expected assigned id")
	}
	if body.PostType != "PostBody" {
		t.Fatalf("expected PostBody discriminator, got %q", body.PostType)
	}
	if body.Status != domain.PostBodyStatusPending {
		t.Fatalf("expected pending status, got %q", body.Status)
	}
}

func TestDeleteOneBody(t *testing.T) {
	svc := NewPostBodyService(newMemPostBodyRepo(), nil)
	ctx := context.Background()

	body, err := svc.CreatePostBody(ctx, &domain.PostBody{
		Text:  "standalone",
		Owner: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteOneBody(ctx, body.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := svc.DeleteOneBody(ctx, body.ID); !errors.Is(err, ErrPostBodyNotFound) {
		t.Fatalf("expected ErrPostBodyNotFound on second delete, got %v", err)
	}
}
