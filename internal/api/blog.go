package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/managers"
)

type createBlogRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type updateBlogRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type blogAuthorRequest struct {
	AuthorID uuid.UUID `json:"author_id" binding:"required"`
}

func (r *Router) listBlogs(c *gin.Context) {
	ownerID, ok := parseOptionalID(c, "owner_id")
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

	query := managers.BlogQuery{
		Author:  c.Query("author"),
		OrderBy: c.Query("order_by"),
		Title:   c.Query("title"),
		OwnerID: ownerID,
		After:   after,
		Before:  before,
	}

	page, err := r.blogs.List(c.Request.Context(), query, parsePage(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(page, newBlogResponse))
}

func (r *Router) getBlog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := r.blogs.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBlogDetailResponse(detail))
}

func (r *Router) createBlog(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	detail, err := r.blogs.Create(c.Request.Context(), req.Title, req.Description, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBlogDetailResponse(detail))
}

func (r *Router) updateBlog(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if _, err := r.permissions.RequireBlogOwner(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}

	detail, err := r.blogs.Update(c.Request.Context(), id, managers.BlogPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBlogDetailResponse(detail))
}

func (r *Router) deleteBlog(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if _, err := r.permissions.RequireBlogOwner(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}
	if err := r.blogs.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog_id": id})
}

func (r *Router) addBlogAuthor(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req blogAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if _, err := r.permissions.RequireBlogOwner(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}

	detail, err := r.blogs.AddAuthor(c.Request.Context(), id, req.AuthorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBlogDetailResponse(detail))
}

func (r *Router) removeBlogAuthor(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req blogAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if _, err := r.permissions.RequireBlogOwner(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}

	detail, err := r.blogs.RemoveAuthor(c.Request.Context(), id, req.AuthorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBlogDetailResponse(detail))
}
