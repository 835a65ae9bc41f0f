package model

import (
	"time"
)

// DeviceView 某浏览器实例对某投递的首次到访记录，创建后不再更新。
// (submission_id, browser_id) 唯一索引兜底并发重放：同一浏览器的
// 并发上报只有一条能插入成功。
type DeviceView struct {
	ID           uint64    `gorm:"primaryKey"`
	SubmissionID uint64    `gorm:"not null;index:idx_submission_browser,unique" json:"submissionId"`
	BrowserID    string    `gorm:"type:varchar(64);not null;index:idx_submission_browser,unique" json:"browserId"`
	Hardware     string    `gorm:"type:varchar(255);column:hw" json:"hw"`
	OS           string    `gorm:"type:varchar(100);column:os" json:"os"`
	Timezone     string    `gorm:"type:varchar(100);column:tz" json:"tz"`
	Screen       string    `gorm:"type:varchar(100)" json:"screen"`
	IPSegment    string    `gorm:"type:varchar(50);column:ip_segment" json:"ipSegment"`
	DeviceGroup  string    `gorm:"type:varchar(64);not null" json:"deviceGroup"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (DeviceView) TableName() string {
	return "submission_device_views"
}
