package handler

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/pkg/response"
	"Byndlink/internal/pkg/util"
	"Byndlink/internal/service"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type TrackingHandler struct {
	trackingSvc service.TrackingService
	sessionSvc  service.SessionService
}

func NewTrackingHandler(trackingSvc service.TrackingService, sessionSvc service.SessionService) *TrackingHandler {
	return &TrackingHandler{
		trackingSvc: trackingSvc,
		sessionSvc:  sessionSvc,
	}
}

func (s *TrackingHandler) TrackView(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var trackDTO dto.TrackViewDTO
	if err := c.ShouldBind(&trackDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&trackDTO); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.trackingSvc.TrackView(c.Request.Context(), userID, &trackDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// TrackTime 兼容 sendBeacon 的 text/plain 载荷，先读原始 body 再解析
func (s *TrackingHandler) TrackTime(c *gin.Context) {
	userID := c.GetUint64("user_id")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var timeDTO dto.TrackTimeDTO
	if err = json.Unmarshal(body, &timeDTO); err != nil {
		response.Success(c, &dto.TrackTimeResultDTO{OK: false})
		return
	}
	if timeDTO.SubmissionUniqueID == "" || timeDTO.TimeSpent == nil {
		response.Success(c, &dto.TrackTimeResultDTO{OK: false})
		return
	}

	result, err := s.trackingSvc.TrackTime(c.Request.Context(), userID, &timeDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *TrackingHandler) StartSession(c *gin.Context) {
	var startDTO dto.StartSessionDTO
	if err := c.ShouldBind(&startDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&startDTO); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.sessionSvc.StartSession(c.Request.Context(), &startDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *TrackingHandler) UpdateSession(c *gin.Context) {
	var updateDTO dto.UpdateSessionDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.sessionSvc.UpdateSession(c.Request.Context(), &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
