package service

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/pkg/consts"
	"Byndlink/internal/pkg/redis"
	"Byndlink/internal/pkg/util"
	"Byndlink/internal/repository"
	"context"
	log "log/slog"
	"math"
	"time"

	"github.com/goccy/go-json"
)

const dashboardCacheTTL = time.Minute * 5

// AnalyticsService 面向投递主人的看板聚合
type AnalyticsService interface {
	GetDashboard(ctx context.Context, userId uint64, uniqueId string) (*dto.DashboardDTO, error)
}

type AnalyticsServiceImpl struct {
	submissionRepo  repository.SubmissionRepo
	viewStatRepo    repository.ViewStatRepo
	dailyViewRepo   repository.DailyViewRepo
	viewSessionRepo repository.ViewSessionRepo
}

func NewAnalyticsService(
	submissionRepo repository.SubmissionRepo,
	viewStatRepo repository.ViewStatRepo,
	dailyViewRepo repository.DailyViewRepo,
	viewSessionRepo repository.ViewSessionRepo,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		submissionRepo:  submissionRepo,
		viewStatRepo:    viewStatRepo,
		dailyViewRepo:   dailyViewRepo,
		viewSessionRepo: viewSessionRepo,
	}
}

func (s *AnalyticsServiceImpl) GetDashboard(ctx context.Context, userId uint64, uniqueId string) (*dto.DashboardDTO, error) {
	submission, err := s.submissionRepo.GetByUniqueId(ctx, uniqueId)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}
	if submission.UserID != userId {
		return nil, UnauthorizedError
	}

	key := consts.SubmissionDashboardKey + uniqueId
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		dashboard := &dto.DashboardDTO{}
		if err = json.Unmarshal([]byte(cached), dashboard); err == nil {
			return dashboard, nil
		}
	}

	dashboard := &dto.DashboardDTO{
		Status:        submission.Status,
		SubmissionAge: util.DaysSince(submission.CreatedAt),
		ViewsOverTime: make([]dto.DailyViewsDTO, 0),
	}

	stat, err := s.viewStatRepo.GetBySubmission(ctx, submission.ID)
	if err != nil {
		return nil, err
	}
	if stat == nil {
		// 还没有任何访问，返回零值看板
		return dashboard, nil
	}

	dashboard.TotalViews = int64(stat.TotalViews)
	dashboard.UniqueViewers = int64(stat.UniqueViews)
	dashboard.AvgTimePerView = int64(stat.AvgTimeSpent)
	dashboard.FirstViewedOn = stat.FirstViewedAt
	dashboard.LastViewedAt = stat.LastViewedAt

	counts, err := s.viewSessionRepo.CountEngagement(ctx, submission.ID, consts.EngagementHighSeconds, consts.EngagementModerateSeconds)
	if err != nil {
		log.ErrorContext(ctx, "GetDashboard engagement", "submission_id", submission.ID, "err", err)
		counts = &repository.EngagementCounts{}
	}
	dashboard.EngagementBreakdown = dto.EngagementBreakdownDTO{
		High:     counts.High,
		Moderate: counts.Moderate,
		Low:      counts.Low,
	}
	dashboard.EngagementScore = engagementScore(counts, dashboard.TotalViews)

	avgPages, err := s.viewSessionRepo.AveragePages(ctx, submission.ID)
	if err != nil {
		log.ErrorContext(ctx, "GetDashboard avg pages", "submission_id", submission.ID, "err", err)
	}
	dashboard.AveragePagesViewed = math.Round(avgPages*10) / 10

	since := util.GetMidnight(time.Now()).AddDate(0, 0, -6)
	buckets, err := s.dailyViewRepo.ListSince(ctx, submission.ID, since)
	if err != nil {
		log.ErrorContext(ctx, "GetDashboard daily views", "submission_id", submission.ID, "err", err)
	}
	for _, bucket := range buckets {
		dashboard.ViewsOverTime = append(dashboard.ViewsOverTime, dto.DailyViewsDTO{
			Date:  bucket.ViewDate.Format("2006-01-02"),
			Views: int64(bucket.Views),
		})
	}

	if payload, err := json.Marshal(dashboard); err == nil {
		if err = redis.SetWithExpiration(ctx, key, string(payload), dashboardCacheTTL); err != nil {
			log.WarnContext(ctx, "GetDashboard cache set", "unique_id", uniqueId, "err", err)
		}
	}

	return dashboard, nil
}

// engagementScore 有效互动会话占总访问量的百分比，封顶 100
func engagementScore(counts *repository.EngagementCounts, totalViews int64) int {
	if totalViews <= 0 {
		return 0
	}
	engaged := counts.High + counts.Moderate
	score := int(math.Round(float64(engaged) / float64(totalViews) * 100))
	if score > 100 {
		score = 100
	}
	return score
}
