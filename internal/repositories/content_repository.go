package repositories

import (
	"github.com/pulsewire/backend/internal/models"
	"gorm.io/gorm"
)

// ContentRepository defines the interface for content data operations
type ContentRepository interface {
	CreateContent(content *models.Content) error
	GetContentByID(id uint) (*models.Content, error)
	GetContent(userID uint, contentType string, limit int) ([]models.Content, error)
	GetFeedForUser(userID uint, limit int) ([]models.Content, error)
	UpdateContent(content *models.Content) error
	DeleteContent(id uint) error
}

// PostgresContentRepository implements ContentRepository for PostgreSQL
type PostgresContentRepository struct {
	db *gorm.DB
}

// NewPostgresContentRepository creates a new PostgresContentRepository
func NewPostgresContentRepository(db *gorm.DB) *PostgresContentRepository {
	return &PostgresContentRepository{db: db}
}

func (r *PostgresContentRepository) CreateContent(content *models.Content) error {
	return r.db.Create(content).Error
}

func (r *PostgresContentRepository) GetContentByID(id uint) (*models.Content, error) {
	var content models.Content
	if err := r.db.First(&content, id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// GetContent lists content newest-first, optionally filtered by author
// and/or type. Zero values mean no filter.
func (r *PostgresContentRepository) GetContent(userID uint, contentType string, limit int) ([]models.Content, error) {
	var items []models.Content
	query := r.db.Order("created_at DESC").Limit(limit)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if contentType != "" {
		query = query.Where("type = ?", contentType)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetFeedForUser returns recent content from the users that userID follows
func (r *PostgresContentRepository) GetFeedForUser(userID uint, limit int) ([]models.Content, error) {
	var items []models.Content
	err := r.db.Where("user_id IN (?)",
		r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID),
	).Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *PostgresContentRepository) UpdateContent(content *models.Content) error {
	return r.db.Save(content).Error
}

func (r *PostgresContentRepository) DeleteContent(id uint) error {
	return r.db.Delete(&models.Content{}, id).Error
}
