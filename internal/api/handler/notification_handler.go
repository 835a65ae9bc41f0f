package handler

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/pkg/response"
	"Byndlink/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

func (s *NotificationHandler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")
	notifications, err := s.notificationSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notifications)
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var readDTO dto.MarkNotificationsReadDTO
	if err := c.ShouldBind(&readDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), userID, readDTO.IDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
