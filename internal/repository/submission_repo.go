package repository

import (
	"Byndlink/internal/model"
	"Byndlink/internal/pkg/consts"
	"context"
	"errors"

	"gorm.io/gorm"
)

type SubmissionRepo interface {
	GetById(ctx context.Context, id uint64) (*model.Submission, error)
	GetByUniqueId(ctx context.Context, uniqueId string) (*model.Submission, error)
	GetByUniqueIdWithLayers(ctx context.Context, uniqueId string) (*model.Submission, error)
	ListByUser(ctx context.Context, userId uint64) ([]*model.Submission, error)
	CountByUser(ctx context.Context, userId uint64) (int64, error)
	Create(ctx context.Context, submission *model.Submission) error
	UpdatePreview(ctx context.Context, id uint64, embedURL, thumbnail string) error
	MarkViewed(ctx context.Context, id uint64) (int64, error)
	DeleteCascade(ctx context.Context, id uint64) error
}

type SubmissionRepoImpl struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) SubmissionRepo {
	return &SubmissionRepoImpl{db: db}
}

func (s *SubmissionRepoImpl) GetById(ctx context.Context, id uint64) (*model.Submission, error) {
	submission := &model.Submission{}
	result := s.db.WithContext(ctx).First(submission, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return submission, nil
}

func (s *SubmissionRepoImpl) GetByUniqueId(ctx context.Context, uniqueId string) (*model.Submission, error) {
	submission := &model.Submission{}
	result := s.db.WithContext(ctx).
		Where("unique_id = ?", uniqueId).
		First(submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return submission, nil
}

func (s *SubmissionRepoImpl) GetByUniqueIdWithLayers(ctx context.Context, uniqueId string) (*model.Submission, error) {
	submission := &model.Submission{}
	result := s.db.WithContext(ctx).
		Preload("Layers", func(db *gorm.DB) *gorm.DB {
			return db.Order("layer_order ASC")
		}).
		Where("unique_id = ?", uniqueId).
		First(submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return submission, nil
}

func (s *SubmissionRepoImpl) ListByUser(ctx context.Context, userId uint64) ([]*model.Submission, error) {
	submissions := make([]*model.Submission, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}
	return submissions, nil
}

func (s *SubmissionRepoImpl) CountByUser(ctx context.Context, userId uint64) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("user_id = ?", userId).
		Count(&count)
	return count, result.Error
}

func (s *SubmissionRepoImpl) Create(ctx context.Context, submission *model.Submission) error {
	return s.db.WithContext(ctx).Create(submission).Error
}

func (s *SubmissionRepoImpl) UpdatePreview(ctx context.Context, id uint64, embedURL, thumbnail string) error {
	updates := map[string]interface{}{}
	if embedURL != "" {
		updates["embed_url"] = embedURL
	}
	if thumbnail != "" {
		updates["preview_thumbnail"] = thumbnail
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// MarkViewed 单向状态投影，只允许 pending -> viewed
func (s *SubmissionRepoImpl) MarkViewed(ctx context.Context, id uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Submission{}).
		Where("id = ? AND status = ?", id, consts.SubmissionStatusPending).
		Update("status", consts.SubmissionStatusViewed)
	return result.RowsAffected, result.Error
}

// DeleteCascade 在一个事务里删除投递及其全部关联数据
func (s *SubmissionRepoImpl) DeleteCascade(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&model.DesignLayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&model.ViewStat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&model.DailyView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&model.DeviceView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&model.ViewSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Submission{}, id).Error
	})
}
