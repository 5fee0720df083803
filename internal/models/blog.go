package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog represents a blog with one owner and zero or more co-authors
type Blog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	Title       string    `gorm:"type:varchar(255);not null;uniqueIndex:blogs_title_ux1;column:title"`
	Description string    `gorm:"type:text;not null;default:'';column:description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;column:owner_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
	UpdatedAt   time.Time `gorm:"not null;column:updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;references:ID"`
}

// TableName specifies the table name for Blog
func (Blog) TableName() string {
	return "blogs"
}

// BlogAuthor grants a user creation rights on a blog. The blog's owner
// holds a row here as well, inserted in the same transaction that
// creates the blog.
type BlogAuthor struct {
	AuthorID uuid.UUID `gorm:"type:uuid;primaryKey;column:author_id"`
	BlogID   uuid.UUID `gorm:"type:uuid;primaryKey;column:blog_id"`

	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
	Blog   *Blog `gorm:"foreignKey:BlogID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for BlogAuthor
func (BlogAuthor) TableName() string {
	return "blog_authors"
}
