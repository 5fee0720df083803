package managers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkwell/inkwell/internal/apperror"
	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/models"
	"github.com/inkwell/inkwell/pkg/logging"
)

// UserManager owns user CRUD. Users are soft-deleted: Delete flips
// is_active and every read in this manager is scoped to active users.
type UserManager struct {
	db        *gorm.DB
	passwords *auth.PasswordService
	logger    *zap.Logger
}

// NewUserManager creates a new user manager
func NewUserManager(db *gorm.DB, passwords *auth.PasswordService) *UserManager {
	return &UserManager{
		db:        db,
		passwords: passwords,
		logger:    logging.WithComponent("user-manager"),
	}
}

// UserFilter selects users by exact name membership.
type UserFilter struct {
	Names []string
}

// UserPatch holds the optional fields of a partial user update.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

// IsEmpty reports whether no field is set.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// List returns one page of active users.
func (m *UserManager) List(ctx context.Context, filter UserFilter, page PageParams) (*Page[models.User], error) {
	page = page.normalized()

	q := m.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true)
	if len(filter.Names) > 0 {
		q = q.Where("name IN ?", filter.Names)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := q.Order("created_at DESC").Offset(page.offset()).Limit(page.Size).Find(&users).Error; err != nil {
		return nil, err
	}

	return newPage(users, total, page), nil
}

// Get retrieves an active user by ID.
func (m *UserManager) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).
		Where("is_active = ? AND id = ?", true, id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", id.String())
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves an active user by email. Returns (nil, nil) when
// no active user matches; bearer identity resolution treats that as
// anonymous rather than an error.
func (m *UserManager) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.db.WithContext(ctx).
		Where("is_active = ? AND email = ?", true, email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create registers a new user with a hashed password. Email uniqueness
// holds against every row ever created, soft-deleted ones included.
func (m *UserManager) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := m.passwords.Hash(password)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: hash,
		IsActive: true,
	}

	if err := m.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("user with this email already exists")
		}
		return nil, err
	}

	m.logger.Info("user created", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Update applies a partial update to an active user.
func (m *UserManager) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error) {
	if patch.IsEmpty() {
		return nil, apperror.BadRequest("set the required fields")
	}

	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.Password != nil {
		hash, err := m.passwords.Hash(*patch.Password)
		if err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
		fields["password"] = hash
	}

	res := m.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ? AND id = ?", true, id).
		Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("user with this email already exists")
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("user", id.String())
	}

	return m.Get(ctx, id)
}

// Delete soft-deletes a user. The row stays so historical posts and
// comments keep a valid author reference.
func (m *UserManager) Delete(ctx context.Context, id uuid.UUID) error {
	res := m.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user", id.String())
	}

	m.logger.Info("user deactivated", zap.String("user_id", id.String()))
	return nil
}
