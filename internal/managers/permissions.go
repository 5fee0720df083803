package managers

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/models"
)

// Permissions answers authorization questions about blogs and posts.
// Each check loads the current row before deciding, so a missing
// resource surfaces as not-found rather than forbidden.
type Permissions struct {
	blogs *BlogManager
	posts *PostManager
}

// NewPermissions creates a new permission checker
func NewPermissions(blogs *BlogManager, posts *PostManager) *Permissions {
	return &Permissions{blogs: blogs, posts: posts}
}

// RequireBlogOwner returns the blog when the user owns it.
func (p *Permissions) RequireBlogOwner(ctx context.Context, blogID, userID uuid.UUID) (*models.Blog, error) {
	blog, err := p.blogs.get(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog.OwnerID != userID {
		return nil, apperror.Forbidden("you are not the owner of this blog")
	}
	return blog, nil
}

// RequireBlogAuthor returns the blog when the user is its owner or one
// of its co-authors. Ownership implies authorship: the owner is listed
// in blog_authors from creation.
func (p *Permissions) RequireBlogAuthor(ctx context.Context, blogID, userID uuid.UUID) (*models.Blog, error) {
	blog, err := p.blogs.get(ctx, blogID)
	if err != nil {
		return nil, err
	}
	author, err := p.blogs.GetAuthor(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, apperror.Forbidden("you are not an owner or author of this blog")
	}
	return blog, nil
}

// RequirePostAuthor returns the post when the user wrote it.
func (p *Permissions) RequirePostAuthor(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	post, err := p.posts.get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, apperror.Forbidden("you are not the author of this post")
	}
	return post, nil
}
