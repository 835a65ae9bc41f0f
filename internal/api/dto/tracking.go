package dto

import "Byndlink/internal/pkg/fingerprint"

// TrackViewDTO 浏览打点请求，指纹字段按前端习惯命名（ipSeg）
type TrackViewDTO struct {
	SubmissionUniqueID string `json:"submissionUniqueId" validate:"required"`
	BrowserID          string `json:"browserID" validate:"required"`
	Hardware           string `json:"hw"`
	OS                 string `json:"os"`
	Timezone           string `json:"tz"`
	Screen             string `json:"screen"`
	IPSeg              string `json:"ipSeg"`
}

// Signals 在入口处统一指纹字段命名
func (d *TrackViewDTO) Signals() fingerprint.Signals {
	return fingerprint.Signals{
		Hardware:  d.Hardware,
		OS:        d.OS,
		Timezone:  d.Timezone,
		Screen:    d.Screen,
		IPSegment: d.IPSeg,
	}
}

// TrackViewResultDTO 打点结果
type TrackViewResultDTO struct {
	Unique  bool   `json:"unique"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// TrackTimeDTO 停留时长上报，sendBeacon 离开页面时触发
type TrackTimeDTO struct {
	SubmissionUniqueID string `json:"submissionUniqueId" validate:"required"`
	TimeSpent          *int64 `json:"timeSpent" validate:"required"`
}

// TrackTimeResultDTO 停留时长上报结果
type TrackTimeResultDTO struct {
	OK      bool `json:"ok"`
	Ignored bool `json:"ignored,omitempty"`
	Created bool `json:"created,omitempty"`
}

// StartSessionDTO 会话开始请求
type StartSessionDTO struct {
	SubmissionUniqueID string `json:"submissionUniqueId" validate:"required"`
	BrowserID          string `json:"browserID" validate:"required"`
	Hardware           string `json:"hw"`
	OS                 string `json:"os"`
	Timezone           string `json:"tz"`
	Screen             string `json:"screen"`
	IPSeg              string `json:"ipSeg"`
}

// Signals 在入口处统一指纹字段命名
func (d *StartSessionDTO) Signals() fingerprint.Signals {
	return fingerprint.Signals{
		Hardware:  d.Hardware,
		OS:        d.OS,
		Timezone:  d.Timezone,
		Screen:    d.Screen,
		IPSegment: d.IPSeg,
	}
}

// StartSessionResultDTO 会话开始结果
type StartSessionResultDTO struct {
	SessionID      string `json:"sessionId"`
	IsUniqueViewer bool   `json:"isUniqueViewer"`
}

// UpdateSessionDTO 会话心跳
type UpdateSessionDTO struct {
	SessionID   string `json:"sessionId" validate:"required"`
	TimeSpent   int64  `json:"timeSpent" validate:"min=0"`
	PagesViewed int    `json:"pagesViewed" validate:"min=0"`
}

// UpdateSessionResultDTO 会话心跳结果
type UpdateSessionResultDTO struct {
	Success bool `json:"success"`
}
