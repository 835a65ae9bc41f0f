package cron

import (
	"Byndlink/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine            *cron.Cron
	sessionCleanupJob *job.SessionCleanupJob
}

func NewCronManager(sessionCleanupJob *job.SessionCleanupJob) *Manager {
	return &Manager{
		engine:            cron.New(),
		sessionCleanupJob: sessionCleanupJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("*/30 * * * *", s.sessionCleanupJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()

	// 启动时先清一轮，补上停机期间漏扫的会话
	go s.sessionCleanupJob.Run()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
