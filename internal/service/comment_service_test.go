package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCommentFixture(t *testing.T) (*CommentService, *domain.Post, primitive.ObjectID, *memPostRepo) {
	t.Helper()
	posts := newMemPostRepo()
	comments := newMemCommentRepo()
	ps := NewPostService(posts, comments, nil)
	cs := NewCommentService(comments, posts, nil)

	owner := primitive.NewObjectID()
	post, err := ps.CreatePost(context.Background(), owner, "hello", domain.PostContent{Text: "x"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return cs, post, owner, posts
}

func TestCreateCommentRecordsReference(t *testing.T) {
	cs, post, _, posts := newCommentFixture(t)
	ctx := context.Background()
	author := primitive.NewObjectID()

	comment, err := cs.CreateComment(ctx, author, post.ID, "nice post", "")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}
	if comment.Post != post.ID || comment.Owner != author {
		t.Fatalf("comment references wrong: %+v", comment)
	}

	stored, err := posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get post failed: %v", err)
	}
	if len(stored.Comments) != 1 || stored.Comments[0] != comment.ID {
		t.Fatalf("expected comment id recorded on post, got %v", stored.Comments)
	}
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	cs, _, _, _ := newCommentFixture(t)

	_, err := cs.CreateComment(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), "hi", "")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdateCommentOwnership(t *testing.T) {
	cs, post, _, _ := newCommentFixture(t)
	ctx := context.Background()
	author := primitive.NewObjectID()

	comment, err := cs.CreateComment(ctx, author, post.ID, "mine", "")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}

	newText := "edited"
	_, err = cs.UpdateComment(ctx, comment.ID, primitive.NewObjectID(), domain.CommentUpdate{Text: &newText})
	if !errors.Is(err, ErrCommentEditForbidden) {
		t.Fatalf("expected ErrCommentEditForbidden, got %v", err)
	}
	if err.Error() != "You aren't allowed to edit this comment" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	updated, err := cs.UpdateComment(ctx, comment.ID, author, domain.CommentUpdate{Text: &newText})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.Text != "edited" {
		t.Fatalf("expected edited text, got %q", updated.Text)
	}
}

func TestDeleteCommentTwice(t *testing.T) {
	cs, post, _, _ := newCommentFixture(t)
	ctx := context.Background()
	author := primitive.NewObjectID()

	comment, err := cs.CreateComment(ctx, author, post.ID, "ephemeral", "")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}

	if err := cs.DeleteComment(ctx, comment.ID, author); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	// The second delete is an error, not an idempotent no-op.
	err = cs.DeleteComment(ctx, comment.ID, author)
	if !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound on second delete, got %v", err)
	}
}

func TestDeleteCommentByStranger(t *testing.T) {
	cs, post, _, _ := newCommentFixture(t)
	ctx := context.Background()
	author := primitive.NewObjectID()

	comment, err := cs.CreateComment(ctx, author, post.ID, "mine", "")
	if err != nil {
		t.Fatalf("create comment failed: %v", err)
	}

	err = cs.DeleteComment(ctx, comment.ID, primitive.NewObjectID())
	if !errors.Is(err, ErrCommentDeleteForbidden) {
		t.Fatalf("expected ErrCommentDeleteForbidden, got %v", err)
	}
	if _, err := cs.GetComment(ctx, comment.ID); err != nil {
		t.Fatalf("comment must survive a denied delete: %v", err)
	}
}
