package job

import (
	"Byndlink/internal/api/config"
	"Byndlink/internal/service"
	"context"
	log "log/slog"
	"time"
)

// SessionCleanupJob 定期把失活会话标记为结束
type SessionCleanupJob struct {
	sessionSvc service.SessionService
}

func NewSessionCleanupJob(sessionSvc service.SessionService) *SessionCleanupJob {
	return &SessionCleanupJob{sessionSvc: sessionSvc}
}

func (s *SessionCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	threshold := time.Duration(config.Cfg.Session.StaleMinutes) * time.Minute
	if threshold <= 0 {
		threshold = time.Minute * 30
	}

	swept, err := s.sessionSvc.SweepStale(ctx, threshold)
	if err != nil {
		log.Error("session cleanup failed", "err", err)
		return
	}
	if swept > 0 {
		log.Info("session cleanup finished", "swept", swept)
	}
}
