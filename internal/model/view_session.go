package model

import (
	"time"
)

// ViewSession 浏览器标签页粒度的访问会话，心跳式覆盖更新
type ViewSession struct {
	ID             uint64     `gorm:"primaryKey"`
	SessionID      string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_id" json:"sessionId"`
	SubmissionID   uint64     `gorm:"not null;index:idx_submission_id" json:"submissionId"`
	BrowserID      string     `gorm:"type:varchar(64)" json:"browserId"`
	TimeSpent      int        `gorm:"not null;default:0" json:"timeSpent"`
	PagesViewed    int        `gorm:"not null;default:0" json:"pagesViewed"`
	MaxPagesViewed int        `gorm:"not null;default:0" json:"maxPagesViewed"`
	Engaged        bool       `gorm:"not null;default:0" json:"engaged"`
	IsActive       bool       `gorm:"not null;default:1" json:"isActive"`
	StartedAt      time.Time  `gorm:"not null" json:"startedAt"`
	LastActivityAt time.Time  `gorm:"not null" json:"lastActivityAt"`
	EndedAt        *time.Time `json:"endedAt"`
}

func (ViewSession) TableName() string {
	return "design_view_sessions"
}
