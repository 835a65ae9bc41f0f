package dto

import "time"

// CreateSubmissionDTO 投递创建，figma 链接或 pdf 上传二选一
type CreateSubmissionDTO struct {
	DesignType  string `form:"design_type" json:"design_type" validate:"required,oneof=figma pdf"`
	CompanyName string `form:"company_name" json:"company_name" validate:"required,max=100"`
	Position    string `form:"position" json:"position" validate:"required,max=100"`
	PastedURL   string `form:"pasted_url" json:"pasted_url" validate:"omitempty,url"`
}

// SubmissionDTO 投递详情
type SubmissionDTO struct {
	UniqueID         string     `json:"unique_id"`
	DesignType       string     `json:"design_type"`
	CompanyName      string     `json:"company_name"`
	Position         string     `json:"position"`
	EmbedURL         string     `json:"embed_url,omitempty"`
	PreviewThumbnail string     `json:"preview_thumbnail,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
}

// SubmissionListItemDTO 投递列表项，附带该投递的浏览聚合
type SubmissionListItemDTO struct {
	SubmissionDTO
	TotalViews   int64      `json:"total_views"`
	UniqueViews  int64      `json:"unique_views"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
}

// SubmissionListDTO 投递列表与名额统计
type SubmissionListDTO struct {
	Submissions    []SubmissionListItemDTO `json:"submissions"`
	TotalCount     int64                   `json:"total_count"`
	ViewedCount    int64                   `json:"viewed_count"`
	RemainingSlots int                     `json:"remaining_slots"`
}

// LayerDTO figma 图层
type LayerDTO struct {
	LayerName  string `json:"layer_name"`
	LayerOrder int    `json:"layer_order"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// PreviewDTO 匿名访问者看到的预览载荷
type PreviewDTO struct {
	UniqueID     string     `json:"unique_id"`
	DesignType   string     `json:"design_type"`
	CompanyName  string     `json:"company_name"`
	Position     string     `json:"position"`
	EmbedURL     string     `json:"embed_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	PdfURL       string     `json:"pdf_url,omitempty"`
	Layers       []LayerDTO `json:"layers,omitempty"`
}
