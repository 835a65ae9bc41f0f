package wire

import (
	"Byndlink/internal/api"
	"Byndlink/internal/api/handler"
	"Byndlink/internal/job"
	"Byndlink/internal/pkg/cron"
	"Byndlink/internal/pkg/preview"
	"Byndlink/internal/repository"
	"Byndlink/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	CronMgr  *cron.Manager
	Capturer *preview.Capturer
}

func BuildApplication(db *gorm.DB) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	viewStatRepo := repository.NewViewStatRepo(db)
	deviceViewRepo := repository.NewDeviceViewRepo(db)
	dailyViewRepo := repository.NewDailyViewRepo(db)
	viewSessionRepo := repository.NewViewSessionRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)

	capturer := preview.NewCapturer()

	userService := service.NewUserService(userRepo)
	submissionService := service.NewSubmissionService(submissionRepo, viewStatRepo, capturer)
	trackingService := service.NewTrackingService(submissionRepo, viewStatRepo, deviceViewRepo, dailyViewRepo, notificationRepo)
	sessionService := service.NewSessionService(submissionRepo, deviceViewRepo, viewSessionRepo)
	analyticsService := service.NewAnalyticsService(submissionRepo, viewStatRepo, dailyViewRepo, viewSessionRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService),
		TrackingHandler:     handler.NewTrackingHandler(trackingService, sessionService),
		AnalyticsHandler:    handler.NewAnalyticsHandler(analyticsService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewSessionCleanupJob(sessionService))

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Capturer: capturer,
	}, nil
}
