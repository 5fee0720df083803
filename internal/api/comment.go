package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/managers"
)

type createCommentRequest struct {
	PostID uuid.UUID `json:"post_id" binding:"required"`
	Body   string    `json:"body" binding:"required"`
}

type updateCommentRequest struct {
	Body *string `json:"body"`
}

func (r *Router) listComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := r.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, newCommentResponse(cm))
	}
	c.JSON(http.StatusOK, out)
}

func (r *Router) createComment(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	comment, err := r.comments.Create(c.Request.Context(), req.PostID, user.ID, req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	if comment == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "post does not exist"})
		return
	}
	c.JSON(http.StatusCreated, newCommentResponse(*comment))
}

func (r *Router) updateComment(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	comment, err := r.comments.Update(c.Request.Context(), id, user.ID, managers.CommentPatch{
		Body: req.Body,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(*comment))
}

func (r *Router) deleteComment(c *gin.Context) {
	user, ok := auth.RequireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := r.comments.Delete(c.Request.Context(), id, user.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
