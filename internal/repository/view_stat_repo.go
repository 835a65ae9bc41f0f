package repository

import (
	"Byndlink/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewStatRepo interface {
	GetBySubmission(ctx context.Context, submissionId uint64) (*model.ViewStat, error)
	EnsureExists(ctx context.Context, submissionId uint64) error
	RecordView(ctx context.Context, submissionId uint64, now time.Time) error
	IncrementUniqueViews(ctx context.Context, submissionId uint64) error
	AddTimeSpent(ctx context.Context, submissionId uint64, seconds int64, now time.Time) (int64, error)
	CreateWithTime(ctx context.Context, submissionId uint64, seconds int64, now time.Time) (bool, error)
	GetBySubmissions(ctx context.Context, submissionIds []uint64) ([]*model.ViewStat, error)
}

type ViewStatRepoImpl struct {
	db *gorm.DB
}

func NewViewStatRepo(db *gorm.DB) ViewStatRepo {
	return &ViewStatRepoImpl{db: db}
}

func (s *ViewStatRepoImpl) GetBySubmission(ctx context.Context, submissionId uint64) (*model.ViewStat, error) {
	stat := &model.ViewStat{}
	result := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionId).
		First(stat)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return stat, nil
}

func (s *ViewStatRepoImpl) GetBySubmissions(ctx context.Context, submissionIds []uint64) ([]*model.ViewStat, error) {
	stats := make([]*model.ViewStat, 0)
	result := s.db.WithContext(ctx).
		Where("submission_id IN ?", submissionIds).
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

// EnsureExists 保证聚合行存在，并发下靠唯一索引吞掉重复插入
func (s *ViewStatRepoImpl) EnsureExists(ctx context.Context, submissionId uint64) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ViewStat{SubmissionID: submissionId}).Error
}

// RecordView 单条 UPDATE 完成 total_views 自增、last_viewed_at 覆盖、
// first_viewed_at 仅在为空时写入，避免读改写竞争
func (s *ViewStatRepoImpl) RecordView(ctx context.Context, submissionId uint64, now time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.ViewStat{}).
		Where("submission_id = ?", submissionId).
		Updates(map[string]interface{}{
			"total_views":     gorm.Expr("total_views + 1"),
			"first_viewed_at": gorm.Expr("IFNULL(first_viewed_at, ?)", now),
			"last_viewed_at":  now,
			"updated_at":      now,
		}).Error
}

func (s *ViewStatRepoImpl) IncrementUniqueViews(ctx context.Context, submissionId uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.ViewStat{}).
		Where("submission_id = ?", submissionId).
		Update("unique_views", gorm.Expr("unique_views + 1")).Error
}

// AddTimeSpent 在一条 UPDATE 里累加时长并重算均值。MySQL 的 SET 子句
// 从左到右求值，avg 必须放在最前面用旧值计算。
func (s *ViewStatRepoImpl) AddTimeSpent(ctx context.Context, submissionId uint64, seconds int64, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Exec(
		`UPDATE submission_view_stats
		 SET avg_time_spent = ROUND((total_time_spent + ?) / (sessions_count + 1)),
		     total_time_spent = total_time_spent + ?,
		     sessions_count = sessions_count + 1,
		     last_viewed_at = ?,
		     updated_at = ?
		 WHERE submission_id = ?`,
		seconds, seconds, now, now, submissionId,
	)
	return result.RowsAffected, result.Error
}

// CreateWithTime 首次上报时长时直接建行，撞上并发插入则返回 false 由调用方重试
func (s *ViewStatRepoImpl) CreateWithTime(ctx context.Context, submissionId uint64, seconds int64, now time.Time) (bool, error) {
	stat := &model.ViewStat{
		SubmissionID:   submissionId,
		TotalTimeSpent: int(seconds),
		SessionsCount:  1,
		AvgTimeSpent:   int(seconds),
		FirstViewedAt:  &now,
		LastViewedAt:   &now,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(stat)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
