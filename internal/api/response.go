package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/managers"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
)

// userResponse is the public shape of a user. The password hash never
// leaves the manager layer.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type blogResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newBlogResponse(b models.Blog) blogResponse {
	return blogResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type blogDetailResponse struct {
	blogResponse
	Owner   userResponse   `json:"owner"`
	Authors []userResponse `json:"authors"`
}

func newBlogDetailResponse(d *managers.BlogDetail) blogDetailResponse {
	authors := make([]userResponse, 0, len(d.Authors))
	for _, a := range d.Authors {
		authors = append(authors, newUserResponse(a))
	}
	return blogDetailResponse{
		blogResponse: newBlogResponse(d.Blog),
		Owner:        newUserResponse(d.Owner),
		Authors:      authors,
	}
}

type postResponse struct {
	ID          uuid.UUID `json:"id"`
	BlogID      uuid.UUID `json:"blog_id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsPublished bool      `json:"is_published"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

func newPostResponse(p models.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		BlogID:      p.BlogID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Body:        p.Body,
		IsPublished: p.IsPublished,
		Views:       p.Views,
		CreatedAt:   p.CreatedAt,
	}
}

type postDetailResponse struct {
	postResponse
	Author userResponse `json:"author"`
	Blog   blogResponse `json:"blog"`
	Likes  int64        `json:"likes"`
}

func newPostDetailResponse(d *managers.PostDetail) postDetailResponse {
	return postDetailResponse{
		postResponse: newPostResponse(d.Post),
		Author:       newUserResponse(d.Author),
		Blog:         newBlogResponse(d.Blog),
		Likes:        d.LikeCount,
	}
}

type commentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentResponse(cm models.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		AuthorID:  cm.AuthorID,
		Body:      cm.Body,
		CreatedAt: cm.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// pageResponse is the list envelope shared by every paginated route.
type pageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

func newPageResponse[U, T any](p *managers.Page[U], convert func(U) T) pageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, convert(it))
	}
	return pageResponse[T]{
		Items: items,
		Total: p.Total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: p.Pages,
	}
}

// writeError translates a manager error into an HTTP response
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, apperror.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, apperror.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, apperror.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		logging.GetLogger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

// parseID reads a UUID path parameter; a malformed value gets a 400 and
// the handler should return immediately.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": name + " must be a valid uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads the page/size query parameters. Absent or malformed
// values fall back to the manager defaults.
func parsePage(c *gin.Context) managers.PageParams {
	var p managers.PageParams
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		p.Size = v
	}
	return p
}

// parseTime reads an optional RFC 3339 query parameter.
func parseTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": name + " must be an RFC 3339 timestamp"})
		return nil, false
	}
	return &t, true
}

// parseOptionalID reads an optional UUID query parameter.
func parseOptionalID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": name + " must be a valid uuid"})
		return nil, false
	}
	return &id, true
}
