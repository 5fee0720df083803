package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/managers"
)

type createPostRequest struct {
	BlogID uuid.UUID `json:"blog_id" binding:"required"`
	Title  string    `json:"title" binding:"required"`
	Body   string    `json:"body"`
}

type updatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (r *Router) listPosts(c *gin.Context) {
	authorID, ok := parseOptionalID(c, "author_id")
	if !ok {
		return
	}
	after, ok := parseTime(c, "created_after")
	if !ok {
		return
	}
	before, ok := parseTime(c, "created_before")
	if !ok {
		return
	}

	query := managers.PostQuery{
		Author:   c.Query("author"),
		OrderBy:  c.Query("order_by"),
		Title:    c.Query("title"),
		AuthorID: authorID,
		After:    after,
		Before:   before,
	}

	page, err := r.posts.List(c.Request.Context(), query, parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page, newPostResponse))
}

// getPost bumps the view counter before returning the post, so the
// returned views already include this read.
func (r *Router) getPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := r.posts.IncrementViews(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	detail, err := r.posts.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostDetailResponse(detail))
}

func (r *Router) createPost(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if _, err := r.permissions.RequireBlogAuthor(c.Request.Context(), req.BlogID, user.ID); err != nil {
		writeError(c, err)
		return
	}

	post, err := r.posts.Create(c.Request.Context(), req.BlogID, user.ID, req.Title, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(*post))
}

func (r *Router) updatePost(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if _, err := r.permissions.RequirePostAuthor(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}

	detail, err := r.posts.Update(c.Request.Context(), id, managers.PostPatch{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostDetailResponse(detail))
}

func (r *Router) deletePost(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := r.permissions.RequirePostAuthor(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}
	if err := r.posts.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (r *Router) toggleLike(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := r.posts.ToggleLike(c.Request.Context(), id, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostDetailResponse(detail))
}
