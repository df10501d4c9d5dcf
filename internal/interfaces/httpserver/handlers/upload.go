package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/auth"
	"tubely/upload-api/internal/utils/platformerrors"
)

const (
	// multipartSlack covers boundaries and part headers around the file.
	multipartSlack = 1 << 20
	// multipartMemory is held in RAM, the rest of a form spills to disk.
	multipartMemory = 10 << 20
)

// parseVideoID reads the :id path parameter.
func parseVideoID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"invalid video id", err, "2c7e9a4f-1b5d-4e08-93a6-f0d8b2c5e147")
	}
	return id, nil
}

// callerID returns the identity stored by the auth middleware.
func callerID(c *gin.Context) (uuid.UUID, error) {
	userID, ok := auth.UserID(c)
	if !ok {
		return uuid.Nil, platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeUnauthorized,
			"missing bearer token", nil, "8a3f0d6b-e2c9-4b71-a5d4-7c1e9f0b3a62")
	}
	return userID, nil
}

// formFile reads one multipart file field from a body capped at maxBytes plus
// multipart overhead. The caller closes the returned file.
func formFile(c *gin.Context, field string, maxBytes int64) (multipart.File, video.Upload, error) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartSlack)

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return nil, video.Upload{}, multipartError(ctx, err, maxBytes)
	}

	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, video.Upload{}, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"missing form file "+field, err, "5b0e8c2d-7f4a-4193-b6e1-d9a3c7f2e850",
			map[string]any{"field": field})
	}

	return file, video.Upload{
		Body:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}

func multipartError(ctx context.Context, err error, maxBytes int64) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"request body too large", err, "e9d1b6a3-4c8f-4a20-87e5-3f0b2d9c6a71",
			map[string]any{"max_bytes": maxBytes})
	}
	return platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
		"unable to parse multipart form", err, "f1c4a7e0-9b3d-4d56-a2f8-6e0c5b9d1a34")
}
