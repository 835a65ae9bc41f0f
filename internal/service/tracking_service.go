package service

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/model"
	"Byndlink/internal/pkg/consts"
	"Byndlink/internal/pkg/fingerprint"
	"Byndlink/internal/pkg/redis"
	"Byndlink/internal/pkg/util"
	"Byndlink/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// TrackingService 访问打点：去重判定与聚合更新。
// 除投递令牌无法解析外，内部存储错误一律记日志吞掉，
// 打点失败绝不能影响访客看稿。
type TrackingService interface {
	TrackView(ctx context.Context, viewerId uint64, trackDTO *dto.TrackViewDTO) (*dto.TrackViewResultDTO, error)
	TrackTime(ctx context.Context, viewerId uint64, timeDTO *dto.TrackTimeDTO) (*dto.TrackTimeResultDTO, error)
}

type TrackingServiceImpl struct {
	submissionRepo   repository.SubmissionRepo
	viewStatRepo     repository.ViewStatRepo
	deviceViewRepo   repository.DeviceViewRepo
	dailyViewRepo    repository.DailyViewRepo
	notificationRepo repository.NotificationRepo
}

func NewTrackingService(
	submissionRepo repository.SubmissionRepo,
	viewStatRepo repository.ViewStatRepo,
	deviceViewRepo repository.DeviceViewRepo,
	dailyViewRepo repository.DailyViewRepo,
	notificationRepo repository.NotificationRepo,
) TrackingService {
	return &TrackingServiceImpl{
		submissionRepo:   submissionRepo,
		viewStatRepo:     viewStatRepo,
		deviceViewRepo:   deviceViewRepo,
		dailyViewRepo:    dailyViewRepo,
		notificationRepo: notificationRepo,
	}
}

// TrackView 记录一次访问并判定访客唯一性。
// 主人自看直接跳过；同浏览器只计总量；相似设备并入已有设备组；
// 全新设备才增加 unique_views。
func (s *TrackingServiceImpl) TrackView(ctx context.Context, viewerId uint64, trackDTO *dto.TrackViewDTO) (*dto.TrackViewResultDTO, error) {
	submission, err := s.submissionRepo.GetByUniqueId(ctx, trackDTO.SubmissionUniqueID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	// 主人自看不计任何数据
	if viewerId != 0 && viewerId == submission.UserID {
		return &dto.TrackViewResultDTO{Skipped: true, Reason: "owner_view"}, nil
	}

	now := time.Now()

	// 总量、首次/末次时间与当日分桶在同一次聚合里更新，
	// 保证分桶之和始终等于 total_views
	if err = s.viewStatRepo.EnsureExists(ctx, submission.ID); err != nil {
		log.ErrorContext(ctx, "TrackView ensure stat", "submission_id", submission.ID, "err", err)
		return &dto.TrackViewResultDTO{Unique: false}, nil
	}
	if err = s.viewStatRepo.RecordView(ctx, submission.ID, now); err != nil {
		log.ErrorContext(ctx, "TrackView record view", "submission_id", submission.ID, "err", err)
		return &dto.TrackViewResultDTO{Unique: false}, nil
	}
	if err = s.dailyViewRepo.IncrementDay(ctx, submission.ID, util.GetMidnight(now)); err != nil {
		log.ErrorContext(ctx, "TrackView daily bucket", "submission_id", submission.ID, "err", err)
	}

	s.projectViewed(ctx, submission)
	s.notifyOwner(ctx, submission, now)
	s.invalidateDashboard(ctx, trackDTO.SubmissionUniqueID)

	isUnique, err := s.classifyVisit(ctx, submission.ID, trackDTO)
	if err != nil {
		log.ErrorContext(ctx, "TrackView classify", "submission_id", submission.ID, "err", err)
		return &dto.TrackViewResultDTO{Unique: false}, nil
	}

	if isUnique {
		if err = s.viewStatRepo.IncrementUniqueViews(ctx, submission.ID); err != nil {
			log.ErrorContext(ctx, "TrackView unique increment", "submission_id", submission.ID, "err", err)
		}
	}

	return &dto.TrackViewResultDTO{Unique: isUnique}, nil
}

// classifyVisit 去重判定。返回 true 表示这是一台此前未见过的物理设备。
func (s *TrackingServiceImpl) classifyVisit(ctx context.Context, submissionId uint64, trackDTO *dto.TrackViewDTO) (bool, error) {
	rows, err := s.deviceViewRepo.ListBySubmission(ctx, submissionId)
	if err != nil {
		return false, err
	}

	for _, row := range rows {
		if row.BrowserID == trackDTO.BrowserID {
			// 同一浏览器回访
			return false, nil
		}
	}

	signals := trackDTO.Signals()

	// 贪心取第一个相似设备的分组。这是启发式而非身份保证，
	// 产品能容忍 ±1 的访客误差。
	deviceGroup := ""
	for _, row := range rows {
		if fingerprint.Similar(deviceSignals(row), signals) {
			deviceGroup = row.DeviceGroup
			break
		}
	}

	isUnique := deviceGroup == ""
	if isUnique {
		deviceGroup = uuid.NewString()
	}

	inserted, err := s.deviceViewRepo.Insert(ctx, &model.DeviceView{
		SubmissionID: submissionId,
		BrowserID:    trackDTO.BrowserID,
		Hardware:     signals.Hardware,
		OS:           signals.OS,
		Timezone:     signals.Timezone,
		Screen:       signals.Screen,
		IPSegment:    signals.IPSegment,
		DeviceGroup:  deviceGroup,
	})
	if err != nil {
		return false, err
	}
	if !inserted {
		// 同一浏览器的并发上报撞了唯一索引，降级为回访
		return false, nil
	}

	return isUnique, nil
}

// TrackTime 累加停留时长并重算均值。0 与上限 21600 均合法，
// 区间外的值确认收到但不入账。主人自己的停留时长同样不入账。
func (s *TrackingServiceImpl) TrackTime(ctx context.Context, viewerId uint64, timeDTO *dto.TrackTimeDTO) (*dto.TrackTimeResultDTO, error) {
	seconds := *timeDTO.TimeSpent
	if seconds < 0 || seconds > consts.MaxTimeSpentSeconds {
		return &dto.TrackTimeResultDTO{OK: true, Ignored: true}, nil
	}

	submission, err := s.submissionRepo.GetByUniqueId(ctx, timeDTO.SubmissionUniqueID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	if viewerId != 0 && viewerId == submission.UserID {
		return &dto.TrackTimeResultDTO{OK: true, Ignored: true}, nil
	}

	now := time.Now()

	affected, err := s.viewStatRepo.AddTimeSpent(ctx, submission.ID, seconds, now)
	if err != nil {
		log.ErrorContext(ctx, "TrackTime update", "submission_id", submission.ID, "err", err)
		return &dto.TrackTimeResultDTO{OK: true}, nil
	}

	created := false
	if affected == 0 {
		created, err = s.viewStatRepo.CreateWithTime(ctx, submission.ID, seconds, now)
		if err != nil {
			log.ErrorContext(ctx, "TrackTime create", "submission_id", submission.ID, "err", err)
			return &dto.TrackTimeResultDTO{OK: true}, nil
		}
		if !created {
			// 并发请求抢先建了行，重试一次累加
			if _, err = s.viewStatRepo.AddTimeSpent(ctx, submission.ID, seconds, now); err != nil {
				log.ErrorContext(ctx, "TrackTime retry", "submission_id", submission.ID, "err", err)
			}
		}
	}

	s.invalidateDashboard(ctx, timeDTO.SubmissionUniqueID)

	return &dto.TrackTimeResultDTO{OK: true, Created: created}, nil
}

// projectViewed 单向状态投影 pending -> viewed
func (s *TrackingServiceImpl) projectViewed(ctx context.Context, submission *model.Submission) {
	if submission.Status != consts.SubmissionStatusPending {
		return
	}
	if _, err := s.submissionRepo.MarkViewed(ctx, submission.ID); err != nil {
		log.ErrorContext(ctx, "TrackView mark viewed", "submission_id", submission.ID, "err", err)
	}
}

func (s *TrackingServiceImpl) notifyOwner(ctx context.Context, submission *model.Submission, now time.Time) {
	err := s.notificationRepo.Upsert(ctx, &model.Notification{
		UserID:       submission.UserID,
		SubmissionID: submission.ID,
		CompanyName:  submission.CompanyName,
		PositionName: submission.Position,
		LastViewedAt: now,
	})
	if err != nil {
		log.ErrorContext(ctx, "TrackView notify owner", "submission_id", submission.ID, "err", err)
	}
}

func (s *TrackingServiceImpl) invalidateDashboard(ctx context.Context, uniqueId string) {
	if err := redis.DeleteKey(ctx, consts.SubmissionDashboardKey+uniqueId); err != nil {
		log.WarnContext(ctx, "invalidate dashboard cache", "unique_id", uniqueId, "err", err)
	}
}

func deviceSignals(row *model.DeviceView) fingerprint.Signals {
	return fingerprint.Signals{
		Hardware:  row.Hardware,
		OS:        row.OS,
		Timezone:  row.Timezone,
		Screen:    row.Screen,
		IPSegment: row.IPSegment,
	}
}
