package model

import (
	"time"
)

// ViewStat 单个投递的访问聚合，与 Submission 一对一。
// first_viewed_at 一经写入不再变化；avg_time_spent 始终由
// total_time_spent / sessions_count 推导，不单独维护。
type ViewStat struct {
	ID             uint64     `gorm:"primaryKey"`
	SubmissionID   uint64     `gorm:"not null;uniqueIndex:idx_submission_id" json:"submissionId"`
	TotalViews     int        `gorm:"not null;default:0" json:"totalViews"`
	UniqueViews    int        `gorm:"not null;default:0" json:"uniqueViews"`
	TotalTimeSpent int        `gorm:"not null;default:0" json:"totalTimeSpent"`
	SessionsCount  int        `gorm:"not null;default:0" json:"sessionsCount"`
	AvgTimeSpent   int        `gorm:"not null;default:0" json:"avgTimeSpent"`
	FirstViewedAt  *time.Time `json:"firstViewedAt"`
	LastViewedAt   *time.Time `json:"lastViewedAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (ViewStat) TableName() string {
	return "submission_view_stats"
}
