package managers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

// PostManager owns post CRUD, the view counter, and likes. Reads only
// see published posts.
type PostManager struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPostManager creates a new post manager
func NewPostManager(db *gorm.DB) *PostManager {
	return &PostManager{db: db, logger: logging.WithComponent("post-manager")}
}

// PostDetail is a post with author, blog, and like count resolved.
// Likes are exposed to callers as a count, never as the list of likers.
type PostDetail struct {
	Post      models.Post
	Author    models.User
	Blog      models.Blog
	LikeCount int64
}

// PostQuery mirrors BlogQuery: author-name filter takes precedence over
// order-by, which takes precedence over the structured filter.
type PostQuery struct {
	Author  string
	OrderBy string

	Title    string
	AuthorID *uuid.UUID
	After    *time.Time
	Before   *time.Time
}

// PostPatch holds the optional fields of a partial post update.
type PostPatch struct {
	Title *string
	Body  *string
}

// IsEmpty reports whether no field is set.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil
}

var postSortFields = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"views":      "views",
}

// List returns one page of published posts in the mode selected by the
// query.
func (m *PostManager) List(ctx context.Context, q PostQuery, page PageParams) (*Page[models.Post], error) {
	page = page.normalized()

	base := m.db.WithContext(ctx).Model(&models.Post{}).Where("posts.is_published = ?", true)
	order := "created_at DESC"

	switch {
	case q.Author != "":
		base = base.
			Joins("JOIN users ON users.id = posts.author_id").
			Where("users.name = ?", q.Author)
		order = "posts.created_at DESC"
	case q.OrderBy != "":
		var err error
		order, err = parseOrder(q.OrderBy, postSortFields)
		if err != nil {
			return nil, err
		}
	default:
		if q.Title != "" {
			base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Title)+"%")
		}
		if q.AuthorID != nil {
			base = base.Where("author_id = ?", *q.AuthorID)
		}
		if q.After != nil {
			base = base.Where("created_at >= ?", *q.After)
		}
		if q.Before != nil {
			base = base.Where("created_at <= ?", *q.Before)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := base.Select("posts.*").Order(order).Offset(page.offset()).Limit(page.Size).Find(&posts).Error; err != nil {
		return nil, err
	}

	return newPage(posts, total, page), nil
}

// get fetches the bare published post row. Shared with the permission
// checks.
func (m *PostManager) get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := m.db.WithContext(ctx).
		Where("id = ? AND is_published = ?", id, true).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", id.String())
		}
		return nil, err
	}
	return &post, nil
}

// Get retrieves a published post with author, blog, and like count.
// The view counter is a separate operation (IncrementViews); list reads
// never touch it.
func (m *PostManager) Get(ctx context.Context, id uuid.UUID) (*PostDetail, error) {
	post, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.detail(ctx, post)
}

func (m *PostManager) detail(ctx context.Context, post *models.Post) (*PostDetail, error) {
	d := &PostDetail{Post: *post}

	err := m.db.WithContext(ctx).Where("id = ?", post.AuthorID).First(&d.Author).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = m.db.WithContext(ctx).Where("id = ?", post.BlogID).First(&d.Blog).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = m.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", post.ID).
		Count(&d.LikeCount).Error
	if err != nil {
		return nil, err
	}

	return d, nil
}

// IncrementViews bumps the view counter in a single UPDATE so
// concurrent readers of the same post never lose an increment.
func (m *PostManager) IncrementViews(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartSpan(ctx, "post.increment_views")
	defer span.End()

	res := m.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND is_published = ?", id, true).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("post", id.String())
	}
	return nil
}

// Create inserts a new post. The caller must already hold create-post
// rights on the blog.
func (m *PostManager) Create(ctx context.Context, blogID, authorID uuid.UUID, title, body string) (*models.Post, error) {
	post := &models.Post{
		ID:          uuid.New(),
		BlogID:      blogID,
		AuthorID:    authorID,
		Title:       title,
		Body:        body,
		IsPublished: true,
	}

	if err := m.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("post with this title already exists")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, apperror.BadRequest("blog does not exist")
		}
		return nil, err
	}

	m.logger.Info("post created",
		zap.String("post_id", post.ID.String()),
		zap.String("blog_id", blogID.String()))
	return post, nil
}

// Update applies a partial update.
func (m *PostManager) Update(ctx context.Context, id uuid.UUID, patch PostPatch) (*PostDetail, error) {
	if patch.IsEmpty() {
		return nil, apperror.BadRequest("set the required fields")
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}

	res := m.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("post with this title already exists")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("post", id.String())
	}

	return m.Get(ctx, id)
}

// Delete removes a post; its comments and likes go with it via cascade.
func (m *PostManager) Delete(ctx context.Context, id uuid.UUID) error {
	res := m.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("post", id.String())
	}

	m.logger.Info("post deleted", zap.String("post_id", id.String()))
	return nil
}

// ToggleLike flips the user's like on a post and returns the refreshed
// post. The flip runs in one transaction: delete the row if present,
// otherwise insert it (ON CONFLICT DO NOTHING, so a concurrent toggle
// cannot duplicate the pair).
func (m *PostManager) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*PostDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "post.toggle_like")
	defer span.End()

	post, err := m.get(ctx, postID)
	if err != nil {
		return nil, err
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return nil, err
	}

	return m.detail(ctx, post)
}
