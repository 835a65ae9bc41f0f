package dto

import "time"

// NotificationDTO 投递被查看的提醒
type NotificationDTO struct {
	ID           uint64     `json:"id"`
	CompanyName  string     `json:"company_name"`
	PositionName string     `json:"position_name"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
	IsRead       bool       `json:"is_read"`
}

// MarkNotificationsReadDTO 标记已读
type MarkNotificationsReadDTO struct {
	IDs []uint64 `json:"ids"`
}
