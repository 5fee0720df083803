package managers

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkwell/inkwell/internal/auth"
	"github.com/inkwell/inkwell/internal/models"
)

// openTestDB creates an in-memory SQLite database with foreign keys
// enforced. A single connection keeps the in-memory database alive and
// shared across the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.BlogAuthor{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceWithCost(bcrypt.MinCost)
}

var userSeq int

// mustUser registers a user with a unique email.
func mustUser(t *testing.T, m *UserManager, name string) *models.User {
	t.Helper()
	userSeq++
	user, err := m.Create(context.Background(), name, fmt.Sprintf("%s-%d@example.com", name, userSeq), "secret")
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return user
}

func mustBlog(t *testing.T, m *BlogManager, title string, ownerID uuid.UUID) *BlogDetail {
	t.Helper()
	blog, err := m.Create(context.Background(), title, "", ownerID)
	if err != nil {
		t.Fatalf("Failed to create blog %s: %v", title, err)
	}
	return blog
}

func mustPost(t *testing.T, m *PostManager, blogID, authorID uuid.UUID, title string) *models.Post {
	t.Helper()
	post, err := m.Create(context.Background(), blogID, authorID, title, "body")
	if err != nil {
		t.Fatalf("Failed to create post %s: %v", title, err)
	}
	return post
}

func count[T any](t *testing.T, db *gorm.DB, where string, args ...interface{}) int64 {
	t.Helper()
	var model T
	var n int64
	q := db.Model(&model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
