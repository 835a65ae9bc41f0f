package service

import (
	"Byndlink/internal/api/config"
	"Byndlink/internal/api/dto"
	"Byndlink/internal/model"
	"Byndlink/internal/pkg/consts"
	"Byndlink/internal/pkg/minio"
	"Byndlink/internal/pkg/preview"
	"Byndlink/internal/pkg/redis"
	"Byndlink/internal/pkg/util"
	"Byndlink/internal/repository"
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

const submissionListCacheTTL = time.Minute * 2

type SubmissionService interface {
	Create(ctx context.Context, userId uint64, createDTO *dto.CreateSubmissionDTO, pdf io.Reader, pdfSize int64) (*dto.SubmissionDTO, error)
	List(ctx context.Context, userId uint64) (*dto.SubmissionListDTO, error)
	Delete(ctx context.Context, userId uint64, uniqueId string) error
	GetPreview(ctx context.Context, uniqueId string) (*dto.PreviewDTO, error)
}

type SubmissionServiceImpl struct {
	submissionRepo repository.SubmissionRepo
	viewStatRepo   repository.ViewStatRepo
	capturer       *preview.Capturer
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepo,
	viewStatRepo repository.ViewStatRepo,
	capturer *preview.Capturer,
) SubmissionService {
	return &SubmissionServiceImpl{
		submissionRepo: submissionRepo,
		viewStatRepo:   viewStatRepo,
		capturer:       capturer,
	}
}

func (s *SubmissionServiceImpl) Create(ctx context.Context, userId uint64, createDTO *dto.CreateSubmissionDTO, pdf io.Reader, pdfSize int64) (*dto.SubmissionDTO, error) {
	count, err := s.submissionRepo.CountByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if count >= consts.MaxActiveSubmissions {
		return nil, ErrSubmissionLimit
	}

	uniqueId, err := util.RandomHex(8)
	if err != nil {
		return nil, err
	}

	submission := &model.Submission{
		UserID:      userId,
		UniqueID:    uniqueId,
		DesignType:  createDTO.DesignType,
		CompanyName: createDTO.CompanyName,
		Position:    createDTO.Position,
		Status:      consts.SubmissionStatusPending,
	}

	switch createDTO.DesignType {
	case consts.DesignTypeFigma:
		if createDTO.PastedURL == "" {
			return nil, ErrParamInvalid
		}
		submission.PastedURL = createDTO.PastedURL

		embed, err := s.capturer.FetchFigmaEmbed(ctx, createDTO.PastedURL)
		if err != nil {
			log.WarnContext(ctx, "figma embed fetch failed", "url", createDTO.PastedURL, "err", err)
		} else {
			submission.EmbedURL = embed.EmbedURL
		}
	case consts.DesignTypePdf:
		if pdf == nil {
			return nil, ErrFileMissing
		}
		objectName := fmt.Sprintf("submissions/%s/design.pdf", submission.UniqueID)
		if _, err = minio.UploadFile(ctx, minio.FilesBucket, objectName, pdf, pdfSize, "application/pdf"); err != nil {
			return nil, err
		}
		submission.PdfFilePath = objectName
	default:
		return nil, ErrParamInvalid
	}

	if err = s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	if submission.DesignType == consts.DesignTypeFigma && submission.EmbedURL != "" {
		go s.captureThumbnail(submission.ID, submission.UniqueID, submission.EmbedURL)
	}

	s.invalidateList(ctx, userId)

	submissionDTO := &dto.SubmissionDTO{}
	if err = copier.Copy(submissionDTO, submission); err != nil {
		return nil, err
	}
	createdAt := submission.CreatedAt
	submissionDTO.CreatedAt = &createdAt
	return submissionDTO, nil
}

// captureThumbnail 后台补缩略图，失败只记日志，投递本身已经创建成功
func (s *SubmissionServiceImpl) captureThumbnail(submissionId uint64, uniqueId, embedURL string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*2)
	defer cancel()

	shot, err := s.capturer.CaptureScreenshot(ctx, embedURL)
	if err != nil {
		log.Error("thumbnail screenshot failed", "submission_id", submissionId, "err", err)
		return
	}

	width := 640
	if config.Cfg != nil && config.Cfg.Preview.ThumbnailWidth > 0 {
		width = config.Cfg.Preview.ThumbnailWidth
	}
	thumb, err := s.capturer.MakeThumbnail(shot, width)
	if err != nil {
		log.Error("thumbnail resize failed", "submission_id", submissionId, "err", err)
		return
	}

	objectName := fmt.Sprintf("submissions/%s/thumbnail.jpg", uniqueId)
	if _, err = minio.UploadFile(ctx, minio.PreviewsBucket, objectName, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg"); err != nil {
		log.Error("thumbnail upload failed", "submission_id", submissionId, "err", err)
		return
	}

	if err = s.submissionRepo.UpdatePreview(ctx, submissionId, "", objectName); err != nil {
		log.Error("thumbnail persist failed", "submission_id", submissionId, "err", err)
	}
}

func (s *SubmissionServiceImpl) List(ctx context.Context, userId uint64) (*dto.SubmissionListDTO, error) {
	key := consts.UserSubmissionsKey + strconv.FormatUint(userId, 10)
	if cached, err := redis.GetValue(ctx, key); err == nil && cached != "" {
		listDTO := &dto.SubmissionListDTO{}
		if err = json.Unmarshal([]byte(cached), listDTO); err == nil {
			return listDTO, nil
		}
	}

	submissions, err := s.submissionRepo.ListByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(submissions))
	for _, submission := range submissions {
		ids = append(ids, submission.ID)
	}

	statsBySubmission := make(map[uint64]*model.ViewStat, len(ids))
	if len(ids) > 0 {
		stats, err := s.viewStatRepo.GetBySubmissions(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, stat := range stats {
			statsBySubmission[stat.SubmissionID] = stat
		}
	}

	listDTO := &dto.SubmissionListDTO{
		Submissions: make([]dto.SubmissionListItemDTO, 0, len(submissions)),
		TotalCount:  int64(len(submissions)),
	}

	for _, submission := range submissions {
		item := dto.SubmissionListItemDTO{}
		if err = copier.Copy(&item.SubmissionDTO, submission); err != nil {
			return nil, err
		}
		createdAt := submission.CreatedAt
		item.CreatedAt = &createdAt

		if stat, ok := statsBySubmission[submission.ID]; ok {
			item.TotalViews = int64(stat.TotalViews)
			item.UniqueViews = int64(stat.UniqueViews)
			item.LastViewedAt = stat.LastViewedAt
		}
		if submission.Status != consts.SubmissionStatusPending {
			listDTO.ViewedCount++
		}
		listDTO.Submissions = append(listDTO.Submissions, item)
	}

	remaining := consts.MaxActiveSubmissions - len(submissions)
	if remaining < 0 {
		remaining = 0
	}
	listDTO.RemainingSlots = remaining

	if payload, err := json.Marshal(listDTO); err == nil {
		_ = redis.SetWithExpiration(ctx, key, string(payload), submissionListCacheTTL)
	}

	return listDTO, nil
}

func (s *SubmissionServiceImpl) Delete(ctx context.Context, userId uint64, uniqueId string) error {
	submission, err := s.submissionRepo.GetByUniqueId(ctx, uniqueId)
	if err != nil {
		return err
	}
	if submission == nil {
		return ErrSubmissionNotFound
	}
	if submission.UserID != userId {
		return UnauthorizedError
	}

	if err = s.submissionRepo.DeleteCascade(ctx, submission.ID); err != nil {
		return err
	}

	// 对象清理是尽力而为，库里已删干净
	prefix := fmt.Sprintf("submissions/%s/", uniqueId)
	if _, err = minio.DeletePrefix(ctx, minio.FilesBucket, prefix); err != nil {
		log.WarnContext(ctx, "delete files prefix", "unique_id", uniqueId, "err", err)
	}
	if _, err = minio.DeletePrefix(ctx, minio.PreviewsBucket, prefix); err != nil {
		log.WarnContext(ctx, "delete previews prefix", "unique_id", uniqueId, "err", err)
	}

	_ = redis.DeleteKey(ctx, consts.SubmissionDashboardKey+uniqueId)
	s.invalidateList(ctx, userId)
	return nil
}

func (s *SubmissionServiceImpl) GetPreview(ctx context.Context, uniqueId string) (*dto.PreviewDTO, error) {
	submission, err := s.submissionRepo.GetByUniqueIdWithLayers(ctx, uniqueId)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrSubmissionNotFound
	}

	previewDTO := &dto.PreviewDTO{
		UniqueID:    submission.UniqueID,
		DesignType:  submission.DesignType,
		CompanyName: submission.CompanyName,
		Position:    submission.Position,
		EmbedURL:    submission.EmbedURL,
	}

	expiry := time.Second * consts.SignedURLExpirySeconds

	if submission.PreviewThumbnail != "" {
		if url, err := minio.GetSignedURL(ctx, minio.PreviewsBucket, submission.PreviewThumbnail, expiry); err == nil {
			previewDTO.ThumbnailURL = url
		} else {
			log.WarnContext(ctx, "sign thumbnail url", "unique_id", uniqueId, "err", err)
		}
	}
	if submission.PdfFilePath != "" {
		if url, err := minio.GetSignedURL(ctx, minio.FilesBucket, submission.PdfFilePath, expiry); err == nil {
			previewDTO.PdfURL = url
		} else {
			log.WarnContext(ctx, "sign pdf url", "unique_id", uniqueId, "err", err)
		}
	}

	for _, layer := range submission.Layers {
		layerDTO := dto.LayerDTO{
			LayerName:  layer.LayerName,
			LayerOrder: layer.LayerOrder,
		}
		if layer.LayerPreviewPath != "" {
			if url, err := minio.GetSignedURL(ctx, minio.PreviewsBucket, layer.LayerPreviewPath, expiry); err == nil {
				layerDTO.PreviewURL = url
			}
		}
		previewDTO.Layers = append(previewDTO.Layers, layerDTO)
	}

	return previewDTO, nil
}

func (s *SubmissionServiceImpl) invalidateList(ctx context.Context, userId uint64) {
	if err := redis.DeleteKey(ctx, consts.UserSubmissionsKey+strconv.FormatUint(userId, 10)); err != nil {
		log.WarnContext(ctx, "invalidate submission list cache", "user_id", userId, "err", err)
	}
}
