package dto

import "time"

// EngagementBreakdownDTO 按停留时长划分的互动分布
type EngagementBreakdownDTO struct {
	High     int64 `json:"high"`
	Moderate int64 `json:"moderate"`
	Low      int64 `json:"low"`
}

// DailyViewsDTO 折线图上的一天
type DailyViewsDTO struct {
	Date  string `json:"date"`
	Views int64  `json:"views"`
}

// DashboardDTO 投递主看板
type DashboardDTO struct {
	Status              string                 `json:"status"`
	TotalViews          int64                  `json:"totalViews"`
	UniqueViewers       int64                  `json:"uniqueViewers"`
	AvgTimePerView      int64                  `json:"avgTimePerView"`
	SubmissionAge       int                    `json:"submissionAge"`
	FirstViewedOn       *time.Time             `json:"firstViewedOn"`
	LastViewedAt        *time.Time             `json:"lastViewedAt"`
	EngagementScore     int                    `json:"engagementScore"`
	EngagementBreakdown EngagementBreakdownDTO `json:"engagementBreakdown"`
	ViewsOverTime       []DailyViewsDTO        `json:"viewsOverTime"`
	AveragePagesViewed  float64                `json:"averagePagesViewed"`
}
