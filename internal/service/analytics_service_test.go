package service

import (
	"Byndlink/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	svc         AnalyticsService
	submissions *fakeSubmissionRepo
	stats       *fakeViewStatRepo
	daily       *fakeDailyViewRepo
	sessions    *fakeViewSessionRepo
	submission  *model.Submission
}

func newAnalyticsFixture() *analyticsFixture {
	submissions := newFakeSubmissionRepo()
	stats := newFakeViewStatRepo()
	daily := newFakeDailyViewRepo()
	sessions := newFakeViewSessionRepo()

	submission := submissions.add(&model.Submission{
		UserID:    ownerUserId,
		UniqueID:  "tok-abc",
		Status:    "viewed",
		CreatedAt: time.Now().AddDate(0, 0, -3),
	})

	return &analyticsFixture{
		svc:         NewAnalyticsService(submissions, stats, daily, sessions),
		submissions: submissions,
		stats:       stats,
		daily:       daily,
		sessions:    sessions,
		submission:  submission,
	}
}

func TestGetDashboardZeroState(t *testing.T) {
	f := newAnalyticsFixture()

	dashboard, err := f.svc.GetDashboard(context.Background(), ownerUserId, "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "viewed", dashboard.Status)
	assert.Equal(t, int64(0), dashboard.TotalViews)
	assert.Equal(t, int64(0), dashboard.UniqueViewers)
	assert.Equal(t, 3, dashboard.SubmissionAge)
	assert.Nil(t, dashboard.FirstViewedOn)
	assert.Equal(t, 0, dashboard.EngagementScore)
	assert.Empty(t, dashboard.ViewsOverTime)
}

func TestGetDashboardAggregates(t *testing.T) {
	f := newAnalyticsFixture()
	ctx := context.Background()

	now := time.Now()
	_ = f.stats.EnsureExists(ctx, f.submission.ID)
	for i := 0; i < 4; i++ {
		_ = f.stats.RecordView(ctx, f.submission.ID, now)
		_ = f.daily.IncrementDay(ctx, f.submission.ID, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	}
	_ = f.stats.IncrementUniqueViews(ctx, f.submission.ID)
	_ = f.stats.IncrementUniqueViews(ctx, f.submission.ID)
	_, _ = f.stats.AddTimeSpent(ctx, f.submission.ID, 80, now)

	// 会话：90s/8 页、45s/2 页、10s/1 页 → high 1, moderate 1, low 1
	_ = f.sessions.Create(ctx, &model.ViewSession{SessionID: "s1", SubmissionID: f.submission.ID, TimeSpent: 90, MaxPagesViewed: 8})
	_ = f.sessions.Create(ctx, &model.ViewSession{SessionID: "s2", SubmissionID: f.submission.ID, TimeSpent: 45, MaxPagesViewed: 2})
	_ = f.sessions.Create(ctx, &model.ViewSession{SessionID: "s3", SubmissionID: f.submission.ID, TimeSpent: 10, MaxPagesViewed: 2})

	dashboard, err := f.svc.GetDashboard(ctx, ownerUserId, "tok-abc")
	require.NoError(t, err)

	assert.Equal(t, int64(4), dashboard.TotalViews)
	assert.Equal(t, int64(2), dashboard.UniqueViewers)
	assert.Equal(t, int64(80), dashboard.AvgTimePerView)
	require.NotNil(t, dashboard.FirstViewedOn)
	require.NotNil(t, dashboard.LastViewedAt)

	assert.Equal(t, int64(1), dashboard.EngagementBreakdown.High)
	assert.Equal(t, int64(1), dashboard.EngagementBreakdown.Moderate)
	assert.Equal(t, int64(1), dashboard.EngagementBreakdown.Low)

	// (1 high + 1 moderate) / 4 views = 50%
	assert.Equal(t, 50, dashboard.EngagementScore)

	// (8 + 2 + 2) / 3 = 4.0
	assert.Equal(t, 4.0, dashboard.AveragePagesViewed)

	require.Len(t, dashboard.ViewsOverTime, 1)
	assert.Equal(t, int64(4), dashboard.ViewsOverTime[0].Views)
}

func TestGetDashboardOwnerOnly(t *testing.T) {
	f := newAnalyticsFixture()

	_, err := f.svc.GetDashboard(context.Background(), ownerUserId+1, "tok-abc")
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestGetDashboardUnknownToken(t *testing.T) {
	f := newAnalyticsFixture()

	_, err := f.svc.GetDashboard(context.Background(), ownerUserId, "no-such-token")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}
