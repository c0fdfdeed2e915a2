package repositories

import (
	"github.com/pulsewire/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotifications(notifications []*models.Notification) error
	GetByRecipientID(recipientID uint, unreadOnly bool, limit int) ([]models.Notification, error)
	CountNotifications(recipientID uint, unreadOnly bool) (int64, error)
	MarkAsRead(notificationID uint) error
	MarkAllAsRead(recipientID uint) (int64, error)
	DeleteNotification(notificationID uint) error
	ClearForRecipient(recipientID uint) (int64, error)
	CountByType() (map[string]int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// CreateNotifications persists a batch of records in a single insert.
// CreatedAt is assigned by the store; the slice is updated in place with
// assigned ids and timestamps.
func (r *postgresNotificationRepository) CreateNotifications(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.Create(notifications).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, unreadOnly bool, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.Where("user_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = false")
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) CountNotifications(recipientID uint, unreadOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = false")
	}
	err := query.Count(&count).Error
	return count, err
}

// MarkAsRead is idempotent: marking an already-read notification succeeds
func (r *postgresNotificationRepository) MarkAsRead(notificationID uint) error {
	res := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", recipientID).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) DeleteNotification(notificationID uint) error {
	res := r.db.Delete(&models.Notification{}, notificationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) ClearForRecipient(recipientID uint) (int64, error) {
	res := r.db.Where("user_id = ?", recipientID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// CountByType groups all notifications by their content type
func (r *postgresNotificationRepository) CountByType() (map[string]int64, error) {
	var rows []struct {
		Type  string
		Count int64
	}
	err := r.db.Model(&models.Notification{}).
		Select("type, COUNT(id) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Type] = row.Count
	}
	return stats, nil
}
