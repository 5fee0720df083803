package managers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
)

// CommentManager owns comment CRUD. Update and Delete are scoped to the
// comment's author in the WHERE clause; a zero-row result means the
// comment is absent or belongs to someone else, and both surface as the
// same client error.
type CommentManager struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCommentManager creates a new comment manager
func NewCommentManager(db *gorm.DB) *CommentManager {
	return &CommentManager{db: db, logger: logging.WithComponent("comment-manager")}
}

// CommentPatch holds the optional fields of a partial comment update.
type CommentPatch struct {
	Body *string
}

// IsEmpty reports whether no field is set.
func (p CommentPatch) IsEmpty() bool {
	return p.Body == nil
}

// ListByPost returns all comments on a post, oldest first.
func (m *CommentManager) ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := m.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Create inserts a comment. A foreign-key violation on the post
// reference returns (nil, nil) rather than an error; the handler
// translates the nil into a client error. This distinguishes "bad
// reference" from real storage failures.
func (m *CommentManager) Create(ctx context.Context, postID, authorID uuid.UUID, body string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}

	if err := m.db.WithContext(ctx).Create(comment).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, nil
		}
		return nil, err
	}

	m.logger.Info("comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("post_id", postID.String()))
	return comment, nil
}

// Update applies a partial update to the caller's own comment.
func (m *CommentManager) Update(ctx context.Context, id, authorID uuid.UUID, patch CommentPatch) (*models.Comment, error) {
	if patch.IsEmpty() {
		return nil, apperror.BadRequest("set the required fields")
	}

	fields := map[string]interface{}{}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}

	res := m.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.BadRequest("comment does not exist")
	}

	var comment models.Comment
	if err := m.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes the caller's own comment.
func (m *CommentManager) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	res := m.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.BadRequest("comment does not exist")
	}
	return nil
}
