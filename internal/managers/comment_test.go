package managers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/apperror"
)

func TestCommentManager_CreateOnMissingPost(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	comments := NewCommentManager(db)

	author := mustUser(t, users, "alice")

	comment, err := comments.Create(context.Background(), uuid.New(), author.ID, "hello")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if comment != nil {
		t.Fatal("Create() on a missing post returned a comment, want nil")
	}
}

func TestCommentManager_ListByPost(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	comments := NewCommentManager(db)
	ctx := context.Background()

	author := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", author.ID)
	post := mustPost(t, posts, blog.Blog.ID, author.ID, "first trip")

	for _, body := range []string{"first", "second", "third"} {
		if _, err := comments.Create(ctx, post.ID, author.ID, body); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListByPost() = %d comments, want 3", len(got))
	}

	empty, err := comments.ListByPost(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ListByPost() missing post error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByPost() missing post = %d comments, want 0", len(empty))
	}
}

func TestCommentManager_UpdateScopedToAuthor(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	comments := NewCommentManager(db)
	ctx := context.Background()

	author := mustUser(t, users, "alice")
	other := mustUser(t, users, "bob")
	blog := mustBlog(t, blogs, "travel", author.ID)
	post := mustPost(t, posts, blog.Blog.ID, author.ID, "first trip")

	comment, err := comments.Create(ctx, post.ID, author.ID, "original")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	body := "edited"

	if _, err := comments.Update(ctx, comment.ID, author.ID, CommentPatch{}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Update() empty patch error = %v, want BadRequest", err)
	}

	// Another user cannot touch the comment; the response does not
	// reveal whether it exists.
	if _, err := comments.Update(ctx, comment.ID, other.ID, CommentPatch{Body: &body}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Update() by non-author error = %v, want BadRequest", err)
	}

	updated, err := comments.Update(ctx, comment.ID, author.ID, CommentPatch{Body: &body})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Body != body {
		t.Errorf("Update() body = %q, want %q", updated.Body, body)
	}
}

func TestCommentManager_DeleteScopedToAuthor(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	comments := NewCommentManager(db)
	ctx := context.Background()

	author := mustUser(t, users, "alice")
	other := mustUser(t, users, "bob")
	blog := mustBlog(t, blogs, "travel", author.ID)
	post := mustPost(t, posts, blog.Blog.ID, author.ID, "first trip")

	comment, err := comments.Create(ctx, post.ID, author.ID, "to be removed")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := comments.Delete(ctx, comment.ID, other.ID); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Delete() by non-author error = %v, want BadRequest", err)
	}
	if err := comments.Delete(ctx, comment.ID, author.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := comments.Delete(ctx, comment.ID, author.ID); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Delete() repeat error = %v, want BadRequest", err)
	}
}
