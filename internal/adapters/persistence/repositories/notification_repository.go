package repositories

import (
	"context"

	"cso-scholarhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// notificationRepository implements NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListByRecipient lists notifications addressed to the given email,
// newest first. Recipients are stored as a JSON array.
func (r *notificationRepository) ListByRecipient(ctx context.Context, email string, offset, limit int) ([]*models.Notification, int64, error) {
	var notifications []*models.Notification
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("JSON_CONTAINS(recipients, JSON_QUOTE(?))", email)

	query.Count(&total)

	err := query.
		Order("date_posted DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}
