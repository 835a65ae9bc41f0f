package service

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/model"
	"Byndlink/internal/pkg/consts"
	"Byndlink/internal/pkg/fingerprint"
	"Byndlink/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// SessionService 标签页粒度的访问会话：开始与心跳
type SessionService interface {
	StartSession(ctx context.Context, startDTO *dto.StartSessionDTO) (*dto.StartSessionResultDTO, error)
	UpdateSession(ctx context.Context, updateDTO *dto.UpdateSessionDTO) (*dto.UpdateSessionResultDTO, error)
	SweepStale(ctx context.Context, threshold time.Duration) (int64, error)
}

type SessionServiceImpl struct {
	submissionRepo  repository.SubmissionRepo
	deviceViewRepo  repository.DeviceViewRepo
	viewSessionRepo repository.ViewSessionRepo
}

func NewSessionService(
	submissionRepo repository.SubmissionRepo,
	deviceViewRepo repository.DeviceViewRepo,
	viewSessionRepo repository.ViewSessionRepo,
) SessionService {
	return &SessionServiceImpl{
		submissionRepo:  submissionRepo,
		deviceViewRepo:  deviceViewRepo,
		viewSessionRepo: viewSessionRepo,
	}
}

// StartSession 开启会话并回答"这是不是新访客"。判定只读不写，
// 设备记录由浏览打点负责落库。
func (s *SessionServiceImpl) StartSession(ctx context.Context, startDTO *dto.StartSessionDTO) (*dto.StartSessionResultDTO, error) {
	submission, err := s.submissionRepo.GetByUniqueId(ctx, startDTO.SubmissionUniqueID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	isUnique := true
	rows, err := s.deviceViewRepo.ListBySubmission(ctx, submission.ID)
	if err != nil {
		log.ErrorContext(ctx, "StartSession list devices", "submission_id", submission.ID, "err", err)
	} else {
		signals := startDTO.Signals()
		for _, row := range rows {
			if row.BrowserID == startDTO.BrowserID || fingerprint.Similar(deviceSignals(row), signals) {
				isUnique = false
				break
			}
		}
	}

	now := time.Now()
	session := &model.ViewSession{
		SessionID:      uuid.NewString(),
		SubmissionID:   submission.ID,
		BrowserID:      startDTO.BrowserID,
		IsActive:       true,
		StartedAt:      now,
		LastActivityAt: now,
	}
	if err = s.viewSessionRepo.Create(ctx, session); err != nil {
		// 会话落库失败不拦访客，后续心跳自然落空
		log.ErrorContext(ctx, "StartSession create", "submission_id", submission.ID, "err", err)
	}

	return &dto.StartSessionResultDTO{
		SessionID:      session.SessionID,
		IsUniqueViewer: isUnique,
	}, nil
}

// UpdateSession 心跳覆盖写，参与度在写入时重新判定
func (s *SessionServiceImpl) UpdateSession(ctx context.Context, updateDTO *dto.UpdateSessionDTO) (*dto.UpdateSessionResultDTO, error) {
	engaged := updateDTO.TimeSpent >= consts.EngagedTimeSeconds ||
		updateDTO.PagesViewed >= consts.EngagedPagesViewed

	affected, err := s.viewSessionRepo.Heartbeat(ctx, updateDTO.SessionID, updateDTO.TimeSpent, updateDTO.PagesViewed, engaged, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "UpdateSession heartbeat", "session_id", updateDTO.SessionID, "err", err)
		return &dto.UpdateSessionResultDTO{Success: false}, nil
	}

	return &dto.UpdateSessionResultDTO{Success: affected > 0}, nil
}

// SweepStale 把超过阈值没有心跳的会话标记为结束
func (s *SessionServiceImpl) SweepStale(ctx context.Context, threshold time.Duration) (int64, error) {
	cutoff := time.Now().Add(-threshold)
	return s.viewSessionRepo.SweepStale(ctx, cutoff)
}
