package model

import (
	"time"
)

// Notification 投递被查看后的站内提醒，每个投递一条，重复查看只刷新时间
type Notification struct {
	ID           uint64    `gorm:"primaryKey"`
	UserID       uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	SubmissionID uint64    `gorm:"not null;uniqueIndex:idx_submission_id" json:"submissionId"`
	CompanyName  string    `gorm:"type:varchar(255)" json:"companyName"`
	PositionName string    `gorm:"type:varchar(255)" json:"positionName"`
	LastViewedAt time.Time `gorm:"not null" json:"lastViewedAt"`
	IsRead       bool      `gorm:"not null;default:0" json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
