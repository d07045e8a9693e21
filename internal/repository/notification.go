package repository

import (
	"context"
	"medifind/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uint) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) error
}

type notificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepoImpl{db: db}
}

func (r *notificationRepoImpl) Create(ctx context.Context, tx *gorm.DB, notification *model.Notification) error {
	return conn(r.db, tx).WithContext(ctx).Create(notification).Error
}

func (r *notificationRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead only touches notifications owned by userID; anything else reads as
// not found.
func (r *notificationRepoImpl) MarkRead(ctx context.Context, userID, notificationID uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Notification{}).
			Where("id = ? AND user_id = ?", notificationID, userID).
			Update("is_read", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", notificationID).First(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	return &notification, nil
}

func (r *notificationRepoImpl) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
