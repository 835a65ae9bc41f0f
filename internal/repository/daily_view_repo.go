package repository

import (
	"Byndlink/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyViewRepo interface {
	IncrementDay(ctx context.Context, submissionId uint64, day time.Time) error
	ListSince(ctx context.Context, submissionId uint64, since time.Time) ([]*model.DailyView, error)
}

type DailyViewRepoImpl struct {
	db *gorm.DB
}

func NewDailyViewRepo(db *gorm.DB) DailyViewRepo {
	return &DailyViewRepoImpl{db: db}
}

// IncrementDay 当天分桶 upsert，同一天的并发访问都落在一行上
func (s *DailyViewRepoImpl) IncrementDay(ctx context.Context, submissionId uint64, day time.Time) error {
	bucket := &model.DailyView{
		SubmissionID: submissionId,
		ViewDate:     day,
		Views:        1,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "view_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"views": gorm.Expr("views + 1")}),
		}).
		Create(bucket).Error
}

func (s *DailyViewRepoImpl) ListSince(ctx context.Context, submissionId uint64, since time.Time) ([]*model.DailyView, error) {
	buckets := make([]*model.DailyView, 0)
	result := s.db.WithContext(ctx).
		Where("submission_id = ? AND view_date >= ?", submissionId, since).
		Order("view_date ASC").
		Find(&buckets)
	if result.Error != nil {
		return nil, result.Error
	}
	return buckets, nil
}
