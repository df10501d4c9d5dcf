package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/utils/platformerrors"
)

// ThumbnailHandler exposes thumbnail upload and registry reads.
type ThumbnailHandler struct {
	cfg     *config.Config
	service *video.Service
	log     zerolog.Logger
}

func NewThumbnailHandler(cfg *config.Config, service *video.Service, log zerolog.Logger) *ThumbnailHandler {
	return &ThumbnailHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "thumbnail-handler").Logger(),
	}
}

// Upload godoc
// @Summary      Upload the thumbnail of a record
// @Tags         thumbnails
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "Video ID"
// @Param        thumbnail  formData  file    true  "JPEG or PNG image"
// @Success      200        {object}  video.Video
// @Failure      400        {object}  platformerrors.HTTPErrorResponse
// @Failure      401        {object}  platformerrors.HTTPErrorResponse
// @Failure      403        {object}  platformerrors.HTTPErrorResponse
// @Failure      404        {object}  platformerrors.HTTPErrorResponse
// @Security     BearerAuth
// @Router       /thumbnails/{id}/upload [post]
func (h *ThumbnailHandler) Upload(c *gin.Context) {
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

	if _, err := h.service.AuthorizeOwner(ctx, videoID, userID); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	file, upload, err := formFile(c, "thumbnail", h.cfg.MaxThumbnailBytes)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	defer file.Close()

	v, err := h.service.UploadThumbnail(ctx, videoID, userID, upload)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Get godoc
// @Summary      Serve a registered thumbnail
// @Description  Only available when thumbnails are kept in the in-process registry.
// @Tags         thumbnails
// @Produce      image/png
// @Produce      image/jpeg
// @Param        id   path  string  true  "Video ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  platformerrors.HTTPErrorResponse
// @Router       /thumbnails/{id} [get]
func (h *ThumbnailHandler) Get(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	thumbnail, err := h.service.GetThumbnail(c.Request.Context(), videoID)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, thumbnail.ContentType, thumbnail.Data)
}
