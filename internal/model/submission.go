package model

import (
	"time"
)

// Submission 设计稿投递记录，unique_id 是对外分享链接使用的公开令牌
type Submission struct {
	ID               uint64    `gorm:"primaryKey"`
	UserID           uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	UniqueID         string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_unique_id" json:"uniqueId"`
	DesignType       string    `gorm:"type:varchar(10);not null" json:"designType"` // figma | pdf
	CompanyName      string    `gorm:"type:varchar(255);not null" json:"companyName"`
	Position         string    `gorm:"type:varchar(255);not null" json:"position"`
	PastedURL        string    `gorm:"type:varchar(1024)" json:"pastedUrl"`
	EmbedURL         string    `gorm:"type:varchar(2048)" json:"embedUrl"`
	PdfFilePath      string    `gorm:"type:varchar(512)" json:"pdfFilePath"`
	PreviewThumbnail string    `gorm:"type:varchar(512)" json:"previewThumbnail"`
	Status           string    `gorm:"type:varchar(10);not null;default:pending" json:"status"` // pending/viewed/approved/rejected
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Layers []DesignLayer `gorm:"foreignKey:SubmissionID;references:ID"`
}

func (Submission) TableName() string {
	return "design_submissions"
}
