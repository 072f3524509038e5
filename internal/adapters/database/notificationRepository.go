package database

import (
	"context"
	"fmt"

	"ymate/internal/core/notification"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// NotificationRepositoryDatabase تاریخچه اعلان‌های ارسال‌شده
type NotificationRepositoryDatabase struct {
	DB *gorm.DB
}

func NewNotificationRepositoryDatabase(db *gorm.DB) *NotificationRepositoryDatabase {
	return &NotificationRepositoryDatabase{DB: db}
}

func (repo *NotificationRepositoryDatabase) Save(ctx context.Context, r *notification.Record) error {
	if err := conn(ctx, repo.DB).Create(r).Error; err != nil {
		return fmt.Errorf("insert notification record: %w", err)
	}
	return nil
}

func (repo *NotificationRepositoryDatabase) FindByUser(ctx context.Context, userID uuid.UUID) ([]*notification.Record, error) {
	var records []*notification.Record
	if err := conn(ctx, repo.DB).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
