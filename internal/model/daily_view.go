package model

import (
	"time"
)

// DailyView 每日访问分桶，(submission_id, view_date) 唯一。
// 与 ViewStat.total_views 由同一次聚合操作更新，分桶之和恒等于总量。
type DailyView struct {
	ID           uint64    `gorm:"primaryKey"`
	SubmissionID uint64    `gorm:"not null;index:idx_submission_date,unique" json:"submissionId"`
	ViewDate     time.Time `gorm:"not null;type:date;index:idx_submission_date,unique;column:view_date" json:"viewDate"`
	Views        int       `gorm:"not null;default:0" json:"views"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (DailyView) TableName() string {
	return "submission_daily_views"
}
