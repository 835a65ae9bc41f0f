package service

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/repository"
	"context"
)

type NotificationService interface {
	List(ctx context.Context, userId uint64) ([]*dto.NotificationDTO, error)
	MarkRead(ctx context.Context, userId uint64, ids []uint64) error
}

type NotificationServiceImpl struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationService(notificationRepo repository.NotificationRepo) NotificationService {
	return &NotificationServiceImpl{notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userId uint64) ([]*dto.NotificationDTO, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.NotificationDTO, 0, len(notifications))
	for _, notification := range notifications {
		lastViewedAt := notification.LastViewedAt
		result = append(result, &dto.NotificationDTO{
			ID:           notification.ID,
			CompanyName:  notification.CompanyName,
			PositionName: notification.PositionName,
			LastViewedAt: &lastViewedAt,
			IsRead:       notification.IsRead,
		})
	}
	return result, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userId uint64, ids []uint64) error {
	return s.notificationRepo.MarkRead(ctx, userId, ids)
}
