package api

import "Byndlink/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	SubmissionHandler   *handler.SubmissionHandler
	TrackingHandler     *handler.TrackingHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	NotificationHandler *handler.NotificationHandler
}
