package service

import (
	"Byndlink/internal/model"
	"Byndlink/internal/repository"
	"context"
	"math"
	"sync"
	"time"
)

// 内存版仓储，行为对齐 MySQL 实现：单语句原子更新、唯一索引吞重复插入

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	nextId      uint64
	submissions map[uint64]*model.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{nextId: 1, submissions: map[uint64]*model.Submission{}}
}

func (f *fakeSubmissionRepo) add(submission *model.Submission) *model.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	if submission.ID == 0 {
		submission.ID = f.nextId
		f.nextId++
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now()
	}
	f.submissions[submission.ID] = submission
	return submission
}

func (f *fakeSubmissionRepo) GetById(_ context.Context, id uint64) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submissions[id], nil
}

func (f *fakeSubmissionRepo) GetByUniqueId(_ context.Context, uniqueId string) (*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, submission := range f.submissions {
		if submission.UniqueID == uniqueId {
			return submission, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepo) GetByUniqueIdWithLayers(ctx context.Context, uniqueId string) (*model.Submission, error) {
	return f.GetByUniqueId(ctx, uniqueId)
}

func (f *fakeSubmissionRepo) ListByUser(_ context.Context, userId uint64) ([]*model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.Submission, 0)
	for _, submission := range f.submissions {
		if submission.UserID == userId {
			result = append(result, submission)
		}
	}
	return result, nil
}

func (f *fakeSubmissionRepo) CountByUser(ctx context.Context, userId uint64) (int64, error) {
	list, _ := f.ListByUser(ctx, userId)
	return int64(len(list)), nil
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *model.Submission) error {
	f.add(submission)
	return nil
}

func (f *fakeSubmissionRepo) UpdatePreview(_ context.Context, id uint64, embedURL, thumbnail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if submission, ok := f.submissions[id]; ok {
		if embedURL != "" {
			submission.EmbedURL = embedURL
		}
		if thumbnail != "" {
			submission.PreviewThumbnail = thumbnail
		}
	}
	return nil
}

func (f *fakeSubmissionRepo) MarkViewed(_ context.Context, id uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	submission, ok := f.submissions[id]
	if !ok || submission.Status != "pending" {
		return 0, nil
	}
	submission.Status = "viewed"
	return 1, nil
}

func (f *fakeSubmissionRepo) DeleteCascade(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.submissions, id)
	return nil
}

type fakeViewStatRepo struct {
	mu    sync.Mutex
	stats map[uint64]*model.ViewStat
}

func newFakeViewStatRepo() *fakeViewStatRepo {
	return &fakeViewStatRepo{stats: map[uint64]*model.ViewStat{}}
}

func (f *fakeViewStatRepo) GetBySubmission(_ context.Context, submissionId uint64) (*model.ViewStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats[submissionId], nil
}

func (f *fakeViewStatRepo) GetBySubmissions(_ context.Context, submissionIds []uint64) ([]*model.ViewStat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.ViewStat, 0)
	for _, id := range submissionIds {
		if stat, ok := f.stats[id]; ok {
			result = append(result, stat)
		}
	}
	return result, nil
}

func (f *fakeViewStatRepo) EnsureExists(_ context.Context, submissionId uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stats[submissionId]; !ok {
		f.stats[submissionId] = &model.ViewStat{SubmissionID: submissionId}
	}
	return nil
}

func (f *fakeViewStatRepo) RecordView(_ context.Context, submissionId uint64, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stat, ok := f.stats[submissionId]
	if !ok {
		return nil
	}
	stat.TotalViews++
	if stat.FirstViewedAt == nil {
		first := now
		stat.FirstViewedAt = &first
	}
	last := now
	stat.LastViewedAt = &last
	stat.UpdatedAt = now
	return nil
}

func (f *fakeViewStatRepo) IncrementUniqueViews(_ context.Context, submissionId uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stat, ok := f.stats[submissionId]; ok {
		stat.UniqueViews++
	}
	return nil
}

func (f *fakeViewStatRepo) AddTimeSpent(_ context.Context, submissionId uint64, seconds int64, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stat, ok := f.stats[submissionId]
	if !ok {
		return 0, nil
	}
	stat.AvgTimeSpent = int(math.Round(float64(stat.TotalTimeSpent+int(seconds)) / float64(stat.SessionsCount+1)))
	stat.TotalTimeSpent += int(seconds)
	stat.SessionsCount++
	last := now
	stat.LastViewedAt = &last
	stat.UpdatedAt = now
	return 1, nil
}

func (f *fakeViewStatRepo) CreateWithTime(_ context.Context, submissionId uint64, seconds int64, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stats[submissionId]; ok {
		return false, nil
	}
	first := now
	last := now
	f.stats[submissionId] = &model.ViewStat{
		SubmissionID:   submissionId,
		TotalTimeSpent: int(seconds),
		SessionsCount:  1,
		AvgTimeSpent:   int(seconds),
		FirstViewedAt:  &first,
		LastViewedAt:   &last,
	}
	return true, nil
}

type fakeDeviceViewRepo struct {
	mu   sync.Mutex
	rows []*model.DeviceView
	// 在 List 之后、Insert 之前触发，用来模拟并发竞争
	beforeInsert func()
}

func newFakeDeviceViewRepo() *fakeDeviceViewRepo {
	return &fakeDeviceViewRepo{}
}

func (f *fakeDeviceViewRepo) ListBySubmission(_ context.Context, submissionId uint64) ([]*model.DeviceView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.DeviceView, 0)
	for _, row := range f.rows {
		if row.SubmissionID == submissionId {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeDeviceViewRepo) Insert(_ context.Context, view *model.DeviceView) (bool, error) {
	if f.beforeInsert != nil {
		hook := f.beforeInsert
		f.beforeInsert = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.SubmissionID == view.SubmissionID && row.BrowserID == view.BrowserID {
			return false, nil
		}
	}
	f.rows = append(f.rows, view)
	return true, nil
}

type fakeDailyViewRepo struct {
	mu      sync.Mutex
	buckets map[uint64]map[string]int
}

func newFakeDailyViewRepo() *fakeDailyViewRepo {
	return &fakeDailyViewRepo{buckets: map[uint64]map[string]int{}}
}

func (f *fakeDailyViewRepo) IncrementDay(_ context.Context, submissionId uint64, day time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.buckets[submissionId] == nil {
		f.buckets[submissionId] = map[string]int{}
	}
	f.buckets[submissionId][day.Format("2006-01-02")]++
	return nil
}

func (f *fakeDailyViewRepo) ListSince(_ context.Context, submissionId uint64, since time.Time) ([]*model.DailyView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.DailyView, 0)
	for date, views := range f.buckets[submissionId] {
		day, _ := time.ParseInLocation("2006-01-02", date, time.Local)
		if day.Before(since) {
			continue
		}
		result = append(result, &model.DailyView{
			SubmissionID: submissionId,
			ViewDate:     day,
			Views:        views,
		})
	}
	return result, nil
}

func (f *fakeDailyViewRepo) sum(submissionId uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, views := range f.buckets[submissionId] {
		total += views
	}
	return total
}

func (f *fakeDailyViewRepo) bucketCount(submissionId uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buckets[submissionId])
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[uint64]*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[uint64]*model.Notification{}}
}

func (f *fakeNotificationRepo) Upsert(_ context.Context, notification *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.notifications[notification.SubmissionID]; ok {
		existing.LastViewedAt = notification.LastViewedAt
		existing.IsRead = false
		return nil
	}
	f.notifications[notification.SubmissionID] = notification
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userId uint64) ([]*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.Notification, 0)
	for _, notification := range f.notifications {
		if notification.UserID == userId {
			result = append(result, notification)
		}
	}
	return result, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userId uint64, ids []uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.UserID != userId {
			continue
		}
		if len(ids) == 0 {
			notification.IsRead = true
			continue
		}
		for _, id := range ids {
			if notification.ID == id {
				notification.IsRead = true
			}
		}
	}
	return nil
}

type fakeViewSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.ViewSession
}

func newFakeViewSessionRepo() *fakeViewSessionRepo {
	return &fakeViewSessionRepo{sessions: map[string]*model.ViewSession{}}
}

func (f *fakeViewSessionRepo) Create(_ context.Context, session *model.ViewSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.SessionID] = session
	return nil
}

func (f *fakeViewSessionRepo) GetBySessionId(_ context.Context, sessionId string) (*model.ViewSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[sessionId], nil
}

func (f *fakeViewSessionRepo) Heartbeat(_ context.Context, sessionId string, timeSpent int64, pagesViewed int, engaged bool, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionId]
	if !ok {
		return 0, nil
	}
	session.TimeSpent = int(timeSpent)
	session.PagesViewed = pagesViewed
	if pagesViewed > session.MaxPagesViewed {
		session.MaxPagesViewed = pagesViewed
	}
	session.Engaged = engaged
	session.LastActivityAt = now
	return 1, nil
}

func (f *fakeViewSessionRepo) CountEngagement(_ context.Context, submissionId uint64, highSec, moderateSec int) (*repository.EngagementCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := &repository.EngagementCounts{}
	for _, session := range f.sessions {
		if session.SubmissionID != submissionId {
			continue
		}
		switch {
		case session.TimeSpent >= highSec:
			counts.High++
		case session.TimeSpent >= moderateSec:
			counts.Moderate++
		default:
			counts.Low++
		}
	}
	return counts, nil
}

func (f *fakeViewSessionRepo) AveragePages(_ context.Context, submissionId uint64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total, count := 0, 0
	for _, session := range f.sessions {
		if session.SubmissionID == submissionId {
			total += session.MaxPagesViewed
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(total) / float64(count), nil
}

func (f *fakeViewSessionRepo) SweepStale(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept int64
	for _, session := range f.sessions {
		if session.IsActive && session.LastActivityAt.Before(cutoff) {
			session.IsActive = false
			endedAt := session.LastActivityAt
			session.EndedAt = &endedAt
			swept++
		}
	}
	return swept, nil
}
