package model

import (
	"time"
)

type DesignLayer struct {
	ID               uint64    `gorm:"primaryKey"`
	SubmissionID     uint64    `gorm:"not null;index:idx_submission_id" json:"submissionId"`
	LayerName        string    `gorm:"type:varchar(255);not null" json:"layerName"`
	LayerOrder       int       `gorm:"not null;default:0" json:"layerOrder"`
	LayerPreviewPath string    `gorm:"type:varchar(512)" json:"layerPreviewPath"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (DesignLayer) TableName() string {
	return "design_layers"
}
