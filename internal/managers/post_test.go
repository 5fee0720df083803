package managers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/models"
)

func TestPostManager_CreateErrors(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	t.Run("duplicate title", func(t *testing.T) {
		_, err := posts.Create(ctx, blog.Blog.ID, owner.ID, "first trip", "")
		if !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("Create() error = %v, want Conflict", err)
		}
	})

	t.Run("unknown blog", func(t *testing.T) {
		_, err := posts.Create(ctx, uuid.New(), owner.ID, "orphan", "")
		if !errors.Is(err, apperror.ErrBadRequest) {
			t.Fatalf("Create() error = %v, want BadRequest", err)
		}
	})
}

func TestPostManager_GetResolvesDetail(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	detail, err := posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Author.ID != owner.ID {
		t.Errorf("Get() author = %v, want %v", detail.Author.ID, owner.ID)
	}
	if detail.Blog.ID != blog.Blog.ID {
		t.Errorf("Get() blog = %v, want %v", detail.Blog.ID, blog.Blog.ID)
	}
	if detail.LikeCount != 0 {
		t.Errorf("Get() likes = %d, want 0", detail.LikeCount)
	}
}

func TestPostManager_UnpublishedInvisible(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "draft")

	err := db.Model(&models.Post{}).Where("id = ?", post.ID).Update("is_published", false).Error
	if err != nil {
		t.Fatalf("Failed to unpublish post: %v", err)
	}

	if _, err := posts.Get(ctx, post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() unpublished error = %v, want NotFound", err)
	}
	if err := posts.IncrementViews(ctx, post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("IncrementViews() unpublished error = %v, want NotFound", err)
	}

	page, err := posts.List(ctx, PostQuery{}, PageParams{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 0 {
		t.Errorf("List() total = %d, want 0", page.Total)
	}
}

func TestPostManager_IncrementViewsSequential(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	for i := 0; i < 5; i++ {
		if err := posts.IncrementViews(ctx, post.ID); err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
	}

	detail, err := posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Post.Views != 5 {
		t.Errorf("views = %d, want 5", detail.Post.Views)
	}
}

func TestPostManager_IncrementViewsConcurrent(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	const readers = 10
	var wg sync.WaitGroup
	errs := make(chan error, readers)

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- posts.IncrementViews(ctx, post.ID)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
	}

	detail, err := posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if detail.Post.Views != readers {
		t.Errorf("views = %d, want %d (lost update)", detail.Post.Views, readers)
	}
}

func TestPostManager_ToggleLike(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	reader := mustUser(t, users, "bob")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	detail, err := posts.ToggleLike(ctx, post.ID, reader.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if detail.LikeCount != 1 {
		t.Errorf("likes after first toggle = %d, want 1", detail.LikeCount)
	}

	// A second user's like is independent.
	detail, err = posts.ToggleLike(ctx, post.ID, owner.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if detail.LikeCount != 2 {
		t.Errorf("likes after second user = %d, want 2", detail.LikeCount)
	}

	// Toggling again removes only the caller's like.
	detail, err = posts.ToggleLike(ctx, post.ID, reader.ID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if detail.LikeCount != 1 {
		t.Errorf("likes after untoggle = %d, want 1", detail.LikeCount)
	}

	if _, err := posts.ToggleLike(ctx, uuid.New(), reader.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ToggleLike() missing post error = %v, want NotFound", err)
	}
}

func TestPostManager_ToggleLikeParity(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	// An even number of toggles always lands back on zero.
	for i := 0; i < 6; i++ {
		if _, err := posts.ToggleLike(ctx, post.ID, owner.ID); err != nil {
			t.Fatalf("ToggleLike() #%d error = %v", i, err)
		}
	}
	if n := count[models.Like](t, db, "post_id = ?", post.ID); n != 0 {
		t.Errorf("like count after even toggles = %d, want 0", n)
	}
}

func TestPostManager_UpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	comments := NewCommentManager(db)
	ctx := context.Background()

	owner := mustUser(t, users, "alice")
	blog := mustBlog(t, blogs, "travel", owner.ID)
	post := mustPost(t, posts, blog.Blog.ID, owner.ID, "first trip")

	if _, err := posts.Update(ctx, post.ID, PostPatch{}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("Update() empty patch error = %v, want BadRequest", err)
	}

	body := "rewritten"
	detail, err := posts.Update(ctx, post.ID, PostPatch{Body: &body})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if detail.Post.Body != body {
		t.Errorf("Update() body = %q, want %q", detail.Post.Body, body)
	}
	if detail.Post.Title != post.Title {
		t.Errorf("Update() title changed to %q", detail.Post.Title)
	}

	if _, err := comments.Create(ctx, post.ID, owner.ID, "nice"); err != nil {
		t.Fatalf("Create() comment error = %v", err)
	}

	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := posts.Get(ctx, post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want NotFound", err)
	}
	if n := count[models.Comment](t, db, ""); n != 0 {
		t.Errorf("comment count after cascade = %d, want 0", n)
	}
	if err := posts.Delete(ctx, post.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() repeat error = %v, want NotFound", err)
	}
}

func TestPostManager_ListModes(t *testing.T) {
	db := openTestDB(t)
	users := NewUserManager(db, testPasswords())
	blogs := NewBlogManager(db)
	posts := NewPostManager(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice")
	bob := mustUser(t, users, "bob")
	blog := mustBlog(t, blogs, "travel", alice.ID)
	if _, err := blogs.AddAuthor(ctx, blog.Blog.ID, bob.ID); err != nil {
		t.Fatalf("AddAuthor() error = %v", err)
	}
	mustPost(t, posts, blog.Blog.ID, alice.ID, "Alpine Passes")
	mustPost(t, posts, blog.Blog.ID, bob.ID, "Harbor Towns")

	tests := []struct {
		name      string
		query     PostQuery
		wantTotal int64
	}{
		{"no filter", PostQuery{}, 2},
		{"by author name", PostQuery{Author: "bob"}, 1},
		{"title substring", PostQuery{Title: "alpine"}, 1},
		{"author id filter", PostQuery{AuthorID: &alice.ID}, 1},
		{"order by views", PostQuery{OrderBy: "-views"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := posts.List(ctx, tt.query, PageParams{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("List() total = %d, want %d", page.Total, tt.wantTotal)
			}
		})
	}

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := posts.List(ctx, PostQuery{OrderBy: "body"}, PageParams{})
		if !errors.Is(err, apperror.ErrBadRequest) {
			t.Fatalf("List() unknown sort error = %v, want BadRequest", err)
		}
	})
}
