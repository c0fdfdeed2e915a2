package models

import "time"

// Notification represents a per-follower notification record (PostgreSQL).
// Exactly one record is created per (follower, content) pair at the moment
// the content is created.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"` // recipient, not the author
	ContentID uint      `json:"content_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:20;index"` // content type, uppercased
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// NotificationPayload is the shape pushed down a live connection. It mirrors
// the persisted record minus the database-assigned id; consumers ignore
// fields they do not know.
type NotificationPayload struct {
	UserID    uint      `json:"user_id"`
	ContentID uint      `json:"content_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
