package repository

import (
	"Byndlink/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// EngagementCounts 按停留时长分档的会话数
type EngagementCounts struct {
	High     int64
	Moderate int64
	Low      int64
}

type ViewSessionRepo interface {
	Create(ctx context.Context, session *model.ViewSession) error
	GetBySessionId(ctx context.Context, sessionId string) (*model.ViewSession, error)
	Heartbeat(ctx context.Context, sessionId string, timeSpent int64, pagesViewed int, engaged bool, now time.Time) (int64, error)
	CountEngagement(ctx context.Context, submissionId uint64, highSec, moderateSec int) (*EngagementCounts, error)
	AveragePages(ctx context.Context, submissionId uint64) (float64, error)
	SweepStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type ViewSessionRepoImpl struct {
	db *gorm.DB
}

func NewViewSessionRepo(db *gorm.DB) ViewSessionRepo {
	return &ViewSessionRepoImpl{db: db}
}

func (s *ViewSessionRepoImpl) Create(ctx context.Context, session *model.ViewSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *ViewSessionRepoImpl) GetBySessionId(ctx context.Context, sessionId string) (*model.ViewSession, error) {
	session := &model.ViewSession{}
	result := s.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		First(session)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return session, nil
}

// Heartbeat 心跳覆盖写，max_pages_viewed 只增不减
func (s *ViewSessionRepoImpl) Heartbeat(ctx context.Context, sessionId string, timeSpent int64, pagesViewed int, engaged bool, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.ViewSession{}).
		Where("session_id = ?", sessionId).
		Updates(map[string]interface{}{
			"time_spent":       timeSpent,
			"pages_viewed":     pagesViewed,
			"max_pages_viewed": gorm.Expr("GREATEST(max_pages_viewed, ?)", pagesViewed),
			"engaged":          engaged,
			"last_activity_at": now,
		})
	return result.RowsAffected, result.Error
}

func (s *ViewSessionRepoImpl) CountEngagement(ctx context.Context, submissionId uint64, highSec, moderateSec int) (*EngagementCounts, error) {
	counts := &EngagementCounts{}
	result := s.db.WithContext(ctx).
		Model(&model.ViewSession{}).
		Select(
			"COALESCE(SUM(CASE WHEN time_spent >= ? THEN 1 ELSE 0 END), 0) AS high, "+
				"COALESCE(SUM(CASE WHEN time_spent >= ? AND time_spent < ? THEN 1 ELSE 0 END), 0) AS moderate, "+
				"COALESCE(SUM(CASE WHEN time_spent < ? THEN 1 ELSE 0 END), 0) AS low",
			highSec, moderateSec, highSec, moderateSec,
		).
		Where("submission_id = ?", submissionId).
		Scan(counts)
	if result.Error != nil {
		return nil, result.Error
	}
	return counts, nil
}

func (s *ViewSessionRepoImpl) AveragePages(ctx context.Context, submissionId uint64) (float64, error) {
	var avg float64
	result := s.db.WithContext(ctx).
		Model(&model.ViewSession{}).
		Select("COALESCE(AVG(max_pages_viewed), 0)").
		Where("submission_id = ?", submissionId).
		Scan(&avg)
	return avg, result.Error
}

// SweepStale 把超时无心跳的会话标记为结束，ended_at 回填最后活跃时间
func (s *ViewSessionRepoImpl) SweepStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.ViewSession{}).
		Where("is_active = ? AND last_activity_at < ?", true, cutoff).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  gorm.Expr("last_activity_at"),
		})
	return result.RowsAffected, result.Error
}
