package service

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	svc         SessionService
	submissions *fakeSubmissionRepo
	devices     *fakeDeviceViewRepo
	sessions    *fakeViewSessionRepo
	submission  *model.Submission
}

func newSessionFixture() *sessionFixture {
	submissions := newFakeSubmissionRepo()
	devices := newFakeDeviceViewRepo()
	sessions := newFakeViewSessionRepo()

	submission := submissions.add(&model.Submission{
		UserID:   ownerUserId,
		UniqueID: "tok-abc",
		Status:   "pending",
	})

	return &sessionFixture{
		svc:         NewSessionService(submissions, devices, sessions),
		submissions: submissions,
		devices:     devices,
		sessions:    sessions,
		submission:  submission,
	}
}

func startDTO(browserId, hw string) *dto.StartSessionDTO {
	return &dto.StartSessionDTO{
		SubmissionUniqueID: "tok-abc",
		BrowserID:          browserId,
		Hardware:           hw,
		OS:                 "macOS",
		Timezone:           "Asia/Shanghai",
		Screen:             "2560x1440",
		IPSeg:              "10.0.1",
	}
}

func TestStartSessionFreshViewer(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	result, err := f.svc.StartSession(ctx, startDTO("b1", "mac-m1"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.True(t, result.IsUniqueViewer)

	session, _ := f.sessions.GetBySessionId(ctx, result.SessionID)
	require.NotNil(t, session)
	assert.True(t, session.IsActive)
	assert.Equal(t, f.submission.ID, session.SubmissionID)
}

func TestStartSessionKnownBrowser(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	_, _ = f.devices.Insert(ctx, &model.DeviceView{
		SubmissionID: f.submission.ID,
		BrowserID:    "b1",
		Hardware:     "mac-m1",
		DeviceGroup:  "g1",
	})

	result, err := f.svc.StartSession(ctx, startDTO("b1", "mac-m1"))
	require.NoError(t, err)
	assert.False(t, result.IsUniqueViewer)
}

func TestStartSessionSimilarDevice(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	_, _ = f.devices.Insert(ctx, &model.DeviceView{
		SubmissionID: f.submission.ID,
		BrowserID:    "other-browser",
		Hardware:     "mac-m1",
		DeviceGroup:  "g1",
	})

	// 浏览器不同但硬件指纹命中
	result, err := f.svc.StartSession(ctx, startDTO("b2", "mac-m1"))
	require.NoError(t, err)
	assert.False(t, result.IsUniqueViewer)
}

func TestStartSessionUnknownToken(t *testing.T) {
	f := newSessionFixture()

	start := startDTO("b1", "mac-m1")
	start.SubmissionUniqueID = "no-such-token"

	_, err := f.svc.StartSession(context.Background(), start)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestUpdateSessionEngagementThresholds(t *testing.T) {
	tests := []struct {
		name    string
		time    int64
		pages   int
		engaged bool
	}{
		{name: "短停留少翻页", time: 29, pages: 2, engaged: false},
		{name: "停留达标", time: 30, pages: 1, engaged: true},
		{name: "翻页达标", time: 5, pages: 3, engaged: true},
		{name: "双达标", time: 120, pages: 8, engaged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture()
			ctx := context.Background()

			started, err := f.svc.StartSession(ctx, startDTO("b1", "mac-m1"))
			require.NoError(t, err)

			result, err := f.svc.UpdateSession(ctx, &dto.UpdateSessionDTO{
				SessionID:   started.SessionID,
				TimeSpent:   tt.time,
				PagesViewed: tt.pages,
			})
			require.NoError(t, err)
			assert.True(t, result.Success)

			session, _ := f.sessions.GetBySessionId(ctx, started.SessionID)
			assert.Equal(t, tt.engaged, session.Engaged)
		})
	}
}

func TestUpdateSessionLastWriteWinsAndMaxPagesMonotone(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	started, err := f.svc.StartSession(ctx, startDTO("b1", "mac-m1"))
	require.NoError(t, err)

	_, err = f.svc.UpdateSession(ctx, &dto.UpdateSessionDTO{SessionID: started.SessionID, TimeSpent: 60, PagesViewed: 5})
	require.NoError(t, err)
	_, err = f.svc.UpdateSession(ctx, &dto.UpdateSessionDTO{SessionID: started.SessionID, TimeSpent: 45, PagesViewed: 2})
	require.NoError(t, err)

	session, _ := f.sessions.GetBySessionId(ctx, started.SessionID)
	assert.Equal(t, 45, session.TimeSpent)
	assert.Equal(t, 2, session.PagesViewed)
	assert.Equal(t, 5, session.MaxPagesViewed)
}

func TestUpdateSessionUnknownSession(t *testing.T) {
	f := newSessionFixture()

	result, err := f.svc.UpdateSession(context.Background(), &dto.UpdateSessionDTO{
		SessionID:   "ghost",
		TimeSpent:   10,
		PagesViewed: 1,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestSweepStaleSessions(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	now := time.Now()
	stale := now.Add(-time.Hour)
	_ = f.sessions.Create(ctx, &model.ViewSession{
		SessionID:      "stale",
		SubmissionID:   f.submission.ID,
		IsActive:       true,
		StartedAt:      stale,
		LastActivityAt: stale,
	})
	_ = f.sessions.Create(ctx, &model.ViewSession{
		SessionID:      "fresh",
		SubmissionID:   f.submission.ID,
		IsActive:       true,
		StartedAt:      now,
		LastActivityAt: now,
	})

	swept, err := f.svc.SweepStale(ctx, time.Minute*30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	staleSession, _ := f.sessions.GetBySessionId(ctx, "stale")
	assert.False(t, staleSession.IsActive)
	require.NotNil(t, staleSession.EndedAt)
	assert.Equal(t, staleSession.LastActivityAt, *staleSession.EndedAt)

	freshSession, _ := f.sessions.GetBySessionId(ctx, "fresh")
	assert.True(t, freshSession.IsActive)

	// 重复清理是幂等的
	sweptAgain, err := f.svc.SweepStale(ctx, time.Minute*30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sweptAgain)
}
