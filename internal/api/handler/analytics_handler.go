package handler

import (
	"Byndlink/internal/pkg/response"
	"Byndlink/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

func (s *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID := c.GetUint64("user_id")
	uniqueID := c.Param("unique_id")

	dashboard, err := s.analyticsSvc.GetDashboard(c.Request.Context(), userID, uniqueID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dashboard)
}
