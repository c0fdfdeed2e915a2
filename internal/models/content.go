package models

import "time"

// Content type categories. Closed set; validated at the API boundary.
const (
	ContentTypeBlog    = "BLOG"
	ContentTypeJob     = "JOB"
	ContentTypeMessage = "MESSAGE"
)

// Content represents a content item posted by a user
type Content struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:20;index"` // BLOG, JOB or MESSAGE
	Title     string    `json:"title" gorm:"size:255"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateContentRequest defines the request body for creating new content
type CreateContentRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Type   string `json:"type" validate:"required,oneof=BLOG JOB MESSAGE"`
	Title  string `json:"title" validate:"required,min=1,max=255"`
	Body   string `json:"body,omitempty"`
}

// UpdateContentRequest defines the request body for updating existing content
type UpdateContentRequest struct {
	Title string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Body  string `json:"body,omitempty"`
}
