package managers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
	"github.com/inkwell/inkwell/pkg/telemetry"
)

// BlogManager owns blog CRUD and co-author management.
type BlogManager struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBlogManager creates a new blog manager
func NewBlogManager(db *gorm.DB) *BlogManager {
	return &BlogManager{db: db, logger: logging.WithComponent("blog-manager")}
}

// BlogDetail is a blog with its owner and author list resolved. Reads
// returning it declare exactly these relations; nothing is loaded
// lazily.
type BlogDetail struct {
	Blog    models.Blog
	Owner   models.User
	Authors []models.User
}

// BlogQuery selects one of three mutually exclusive list modes:
// filter-by-author-name, order-by-field, or structured filtering.
// Author takes precedence over OrderBy, which takes precedence over the
// structured filter fields.
type BlogQuery struct {
	Author  string // exact author (owner or co-author) name
	OrderBy string // sort field, optionally prefixed with '-'

	Title   string // substring match, case-insensitive
	OwnerID *uuid.UUID
	After   *time.Time
	Before  *time.Time
}

// BlogPatch holds the optional fields of a partial blog update.
type BlogPatch struct {
	Title       *string
	Description *string
}

// IsEmpty reports whether no field is set.
func (p BlogPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil
}

var blogSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

// List returns one page of blogs in the mode selected by the query.
func (m *BlogManager) List(ctx context.Context, q BlogQuery, page PageParams) (*Page[models.Blog], error) {
	page = page.normalized()

	base := m.db.WithContext(ctx).Model(&models.Blog{})
	order := "created_at DESC"

	switch {
	case q.Author != "":
		// A blog whose owner and co-author share the name must still
		// appear once, so this is an EXISTS and not a join.
		base = base.Where(
			"EXISTS (SELECT 1 FROM blog_authors JOIN users ON users.id = blog_authors.author_id WHERE blog_authors.blog_id = blogs.id AND users.name = ?)",
			q.Author)
	case q.OrderBy != "":
		var err error
		order, err = parseOrder(q.OrderBy, blogSortFields)
		if err != nil {
			return nil, err
		}
	default:
		if q.Title != "" {
			base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Title)+"%")
		}
		if q.OwnerID != nil {
			base = base.Where("owner_id = ?", *q.OwnerID)
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

	var blogs []models.Blog
	if err := base.Order(order).Offset(page.offset()).Limit(page.Size).Find(&blogs).Error; err != nil {
		return nil, err
	}

	return newPage(blogs, total, page), nil
}

// get fetches the bare blog row. Shared with the permission checks.
func (m *BlogManager) get(ctx context.Context, id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := m.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("blog", id.String())
		}
		return nil, err
	}
	return &blog, nil
}

// Get retrieves a blog with owner and authors.
func (m *BlogManager) Get(ctx context.Context, id uuid.UUID) (*BlogDetail, error) {
	blog, err := m.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.detail(ctx, blog)
}

func (m *BlogManager) detail(ctx context.Context, blog *models.Blog) (*BlogDetail, error) {
	d := &BlogDetail{Blog: *blog}

	// The owner is returned even when soft-deleted; the blog keeps its
	// historical attribution.
	err := m.db.WithContext(ctx).Where("id = ?", blog.OwnerID).First(&d.Owner).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = m.db.WithContext(ctx).
		Select("users.*").
		Joins("JOIN blog_authors ON blog_authors.author_id = users.id").
		Where("blog_authors.blog_id = ?", blog.ID).
		Order("users.name").
		Find(&d.Authors).Error
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Create inserts the blog and its owner's blog_authors row in one
// transaction: either both persist or neither does.
func (m *BlogManager) Create(ctx context.Context, title, description string, ownerID uuid.UUID) (*BlogDetail, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.create")
	defer span.End()

	blog := &models.Blog{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blog).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict("blog with this title already exists")
			}
			return err
		}
		return tx.Create(&models.BlogAuthor{AuthorID: ownerID, BlogID: blog.ID}).Error
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("blog created",
		zap.String("blog_id", blog.ID.String()),
		zap.String("owner_id", ownerID.String()))
	return m.Get(ctx, blog.ID)
}

// Update applies a partial update.
func (m *BlogManager) Update(ctx context.Context, id uuid.UUID, patch BlogPatch) (*BlogDetail, error) {
	if patch.IsEmpty() {
		return nil, apperror.BadRequest("set the required fields")
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	res := m.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("blog with this title already exists")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("blog", id.String())
	}

	return m.Get(ctx, id)
}

// Delete removes a blog; its authors and posts go with it via cascade.
func (m *BlogManager) Delete(ctx context.Context, id uuid.UUID) error {
	res := m.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("blog", id.String())
	}

	m.logger.Info("blog deleted", zap.String("blog_id", id.String()))
	return nil
}

// GetAuthor probes the blog_authors relation. Returns (nil, nil) when
// the pair does not exist.
func (m *BlogManager) GetAuthor(ctx context.Context, blogID, userID uuid.UUID) (*models.BlogAuthor, error) {
	var ba models.BlogAuthor
	err := m.db.WithContext(ctx).
		Where("blog_id = ? AND author_id = ?", blogID, userID).
		First(&ba).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ba, nil
}

// AddAuthor grants a user creation rights on the blog. Adding an
// existing author is a no-op that still returns the current blog state.
func (m *BlogManager) AddAuthor(ctx context.Context, blogID, authorID uuid.UUID) (*BlogDetail, error) {
	// Resolve the blog first so a later FK violation can only mean the
	// user is missing.
	if _, err := m.get(ctx, blogID); err != nil {
		return nil, err
	}

	existing, err := m.GetAuthor(ctx, blogID, authorID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		err := m.db.WithContext(ctx).
			Create(&models.BlogAuthor{AuthorID: authorID, BlogID: blogID}).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, apperror.Conflict("cannot add a non-existent user to authors")
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// lost a race with a concurrent add; the pair exists now
		default:
			return nil, err
		}
	}

	return m.Get(ctx, blogID)
}

// RemoveAuthor revokes a user's creation rights on the blog.
func (m *BlogManager) RemoveAuthor(ctx context.Context, blogID, authorID uuid.UUID) (*BlogDetail, error) {
	res := m.db.WithContext(ctx).
		Where("blog_id = ? AND author_id = ?", blogID, authorID).
		Delete(&models.BlogAuthor{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.BadRequest("this blog has no author with this id")
	}

	return m.Get(ctx, blogID)
}
