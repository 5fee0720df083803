package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a post in a blog
type Post struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;column:id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;column:author_id"`
	BlogID      uuid.UUID `gorm:"type:uuid;not null;column:blog_id"`
	Title       string    `gorm:"type:varchar(255);not null;uniqueIndex:posts_title_ux1;column:title"`
	Body        string    `gorm:"type:text;not null;default:'';column:body"`
	IsPublished bool      `gorm:"not null;default:true;column:is_published"`
	Views       int64     `gorm:"not null;default:0;column:views"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Blog   *Blog `gorm:"foreignKey:BlogID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Like marks that a user likes a post. Presence of the row is the whole
// state; toggling removes or re-inserts it, never duplicates it.
type Like struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	PostID uuid.UUID `gorm:"type:uuid;primaryKey;column:post_id"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
	Post *Post `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "likes"
}
