package api

import (
	"Byndlink/internal/api/middleware"
	"Byndlink/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
			}
		}

		submissionGroup := apiGroup.Group("/submissions")
		submissionGroup.Use(middleware.AuthMiddleware())
		{
			submissionGroup.POST("", group.SubmissionHandler.Create)
			submissionGroup.GET("", group.SubmissionHandler.List)
			submissionGroup.DELETE("/:unique_id", group.SubmissionHandler.Delete)
		}

		previewGroup := apiGroup.Group("/preview")
		previewGroup.Use(middleware.AuthOptionalMiddleware())
		{
			previewGroup.GET("/:unique_id", group.SubmissionHandler.Preview)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		{
			// 访客打点：匿名是常态，可选鉴权只用于识别主人自看
			authOptGroup := analyticsGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.POST("/track", group.TrackingHandler.TrackView)
				authOptGroup.POST("/time", group.TrackingHandler.TrackTime)
				authOptGroup.POST("/session/start", group.TrackingHandler.StartSession)
				authOptGroup.POST("/session/update", group.TrackingHandler.UpdateSession)
			}

			authGroup := analyticsGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/:unique_id/dashboard", group.AnalyticsHandler.Dashboard)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("", group.NotificationHandler.List)
			notificationGroup.POST("/read", group.NotificationHandler.MarkRead)
		}
	}

	return r
}
