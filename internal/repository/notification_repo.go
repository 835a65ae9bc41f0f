package repository

import (
	"Byndlink/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepo interface {
	Upsert(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userId uint64) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userId uint64, ids []uint64) error
}

type NotificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &NotificationRepoImpl{db: db}
}

// Upsert 每个投递只保留一条提醒，重复查看刷新时间并重新置为未读
func (s *NotificationRepoImpl) Upsert(ctx context.Context, notification *model.Notification) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "submission_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_viewed_at": notification.LastViewedAt,
				"is_read":        false,
			}),
		}).
		Create(notification).Error
}

func (s *NotificationRepoImpl) ListByUser(ctx context.Context, userId uint64) ([]*model.Notification, error) {
	notifications := make([]*model.Notification, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("last_viewed_at DESC").
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}
	return notifications, nil
}

func (s *NotificationRepoImpl) MarkRead(ctx context.Context, userId uint64, ids []uint64) error {
	query := s.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ?", userId)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	return query.Update("is_read", true).Error
}
