package repository

import (
	"Byndlink/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceViewRepo interface {
	ListBySubmission(ctx context.Context, submissionId uint64) ([]*model.DeviceView, error)
	Insert(ctx context.Context, view *model.DeviceView) (bool, error)
}

type DeviceViewRepoImpl struct {
	db *gorm.DB
}

func NewDeviceViewRepo(db *gorm.DB) DeviceViewRepo {
	return &DeviceViewRepoImpl{db: db}
}

func (s *DeviceViewRepoImpl) ListBySubmission(ctx context.Context, submissionId uint64) ([]*model.DeviceView, error) {
	views := make([]*model.DeviceView, 0)
	result := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionId).
		Order("id ASC").
		Find(&views)
	if result.Error != nil {
		return nil, result.Error
	}
	return views, nil
}

// Insert 依赖 (submission_id, browser_id) 唯一索引吸收并发重放，
// 返回 false 表示同一浏览器的另一条请求已抢先插入
func (s *DeviceViewRepoImpl) Insert(ctx context.Context, view *model.DeviceView) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(view)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
