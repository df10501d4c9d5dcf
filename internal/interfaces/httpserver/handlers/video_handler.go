package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/interfaces/httpserver/responses"
	"tubely/upload-api/internal/utils/platformerrors"
)

// VideoHandler exposes video record and video upload endpoints.
type VideoHandler struct {
	cfg      *config.Config
	service  *video.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewVideoHandler(cfg *config.Config, service *video.Service, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		cfg:      cfg,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With().Str("component", "video-handler").Logger(),
	}
}

// Create godoc
// @Summary      Create a video record
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        request  body      responses.CreateVideoRequest  true  "Video draft"
// @Success      201      {object}  video.Video
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      401      {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	var req responses.CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, "invalid request body", err, "a4e7c0b2-6d9f-4318-8b5a-1e3f7d0c9b26"), h.log)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		platformerrors.WriteError(c, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler,
			platformerrors.ErrorTypeValidation, validationMessage(err), err, "5d21b8e4-0c7a-4f3e-9a61-2b8f4e7d1c03"), h.log)
		return
	}

	v, err := h.service.CreateVideo(c.Request.Context(), video.CreateParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// List godoc
// @Summary      List the caller's videos
// @Tags         videos
// @Produce      json
// @Success      200  {object}  responses.VideoList
// @Failure      401  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	videos, err := h.service.ListVideos(c.Request.Context(), userID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewList(videos))
}

// Get godoc
// @Summary      Get a video record
// @Tags         videos
// @Produce      json
// @Param        id   path      string  true  "Video ID"
// @Success      200  {object}  video.Video
// @Failure      403  {object}  platformerrors.HTTPErrorResponse
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	userID, err := callerID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	v, err := h.service.GetVideo(c.Request.Context(), videoID, userID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListAssets godoc
// @Summary      List stored assets of a video
// @Description  Returns the ledger of every binary written for the record.
// @Tags         videos
// @Produce      json
// @Param        id   path      string  true  "Video ID"
// @Success      200  {object}  responses.AssetList
// @Failure      403  {object}  platformerrors.HTTPErrorResponse
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /videos/{id}/assets [get]
func (h *VideoHandler) ListAssets(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	userID, err := callerID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	assets, err := h.service.ListAssets(c.Request.Context(), videoID, userID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.NewList(assets))
}

// Upload godoc
// @Summary      Upload the video file of a record
// @Description  Accepts an MP4 up to the configured limit, classifies its orientation with ffprobe and stores it in the object store.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Video ID"
// @Param        video  formData  file    true  "MP4 file"
// @Success      200    {object}  video.Video
// @Failure      400    {object}  platformerrors.HTTPErrorResponse
// @Failure      401    {object}  platformerrors.HTTPErrorResponse
// @Failure      403    {object}  platformerrors.HTTPErrorResponse
// @Failure      404    {object}  platformerrors.HTTPErrorResponse
// @Failure      500    {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /videos/{id}/upload [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	videoID, err := parseVideoID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	userID, err := callerID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	// Reject strangers before reading a potentially large body.
	if _, err := h.service.AuthorizeOwner(ctx, videoID, userID); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	file, upload, err := formFile(c, "video", h.cfg.MaxVideoBytes)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	defer file.Close()

	v, err := h.service.UploadVideo(ctx, videoID, userID, upload)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, v)
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
