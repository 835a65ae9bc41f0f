package handler

import (
	"Byndlink/internal/api/dto"
	"Byndlink/internal/pkg/consts"
	"Byndlink/internal/pkg/response"
	"Byndlink/internal/pkg/util"
	"Byndlink/internal/service"
	"io"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

func (s *SubmissionHandler) Create(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var createDTO dto.CreateSubmissionDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}

	var pdf io.Reader
	var pdfSize int64
	if createDTO.DesignType == consts.DesignTypePdf {
		file, err := c.FormFile("file")
		if err != nil {
			response.Error(c, service.ErrFileMissing)
			return
		}
		if !strings.EqualFold(path.Ext(file.Filename), ".pdf") {
			response.Error(c, service.ErrFileNotSupported)
			return
		}
		reader, err := file.Open()
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		defer func() { _ = reader.Close() }()
		pdf = reader
		pdfSize = file.Size
	}

	submissionDTO, err := s.submissionSvc.Create(c.Request.Context(), userID, &createDTO, pdf, pdfSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, submissionDTO)
}

func (s *SubmissionHandler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")
	listDTO, err := s.submissionSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, listDTO)
}

func (s *SubmissionHandler) Delete(c *gin.Context) {
	userID := c.GetUint64("user_id")
	uniqueID := c.Param("unique_id")
	if err := s.submissionSvc.Delete(c.Request.Context(), userID, uniqueID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *SubmissionHandler) Preview(c *gin.Context) {
	uniqueID := c.Param("unique_id")
	previewDTO, err := s.submissionSvc.GetPreview(c.Request.Context(), uniqueID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, previewDTO)
}
