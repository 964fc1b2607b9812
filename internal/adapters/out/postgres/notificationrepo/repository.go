// Package notificationrepo stores in-app notifications.
package notificationrepo

import (
	"context"
	"time"

	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var _ ports.NotificationRepository = (*GormNotificationRepository)(nil)

// NotificationDTO is the notifications row.
type NotificationDTO struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	KitchenID *uuid.UUID        `gorm:"type:uuid;index"`
	Type      string            `gorm:"type:varchar(16);not null"`
	Title     string            `gorm:"not null"`
	Message   string            `gorm:"type:text;not null"`
	Data      datatypes.JSONMap `gorm:"type:jsonb"`
	Read      bool              `gorm:"not null;default:false"`
	CreatedAt time.Time         `gorm:"not null"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add inserts an unread notification.
func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	var kitchenID *uuid.UUID
	if id := n.KitchenID(); id != nil {
		raw := id.Bytes()
		kitchenID = &raw
	}

	dto := NotificationDTO{
		ID:        n.ID().Bytes(),
		UserID:    n.UserID().Bytes(),
		KitchenID: kitchenID,
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      datatypes.JSONMap(n.Data()),
		CreatedAt: n.CreatedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
