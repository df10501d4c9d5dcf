package video

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/infrastructure/metrics"
	"tubely/upload-api/internal/utils/assetid"
	"tubely/upload-api/internal/utils/platformerrors"
)

const videoMIME = "video/mp4"

var videoMIMEs = map[string]string{
	videoMIME: "mp4",
}

var thumbnailMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// The registry serves bytes back itself, so it accepts a wider set.
var registryThumbnailMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Service orchestrates video and thumbnail uploads for video records.
type Service struct {
	cfg      *config.Config
	repo     Repository
	stores   Stores
	prober   MetadataProber
	registry ThumbnailRegistry
	ledger   AssetLedger
	log      zerolog.Logger
	tracer   trace.Tracer
}

func NewService(
	cfg *config.Config,
	repo Repository,
	stores Stores,
	prober MetadataProber,
	registry ThumbnailRegistry,
	ledger AssetLedger,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		stores:   stores,
		prober:   prober,
		registry: registry,
		ledger:   ledger,
		log:      log.With().Str("component", "video-service").Logger(),
		tracer:   otel.Tracer("tubely/upload-api/video"),
	}
}

// CreateVideo stores a new draft owned by the caller.
func (s *Service) CreateVideo(ctx context.Context, params CreateParams) (*Video, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"title is required", nil, "0c5b8f0e-3a51-4e7c-9d2b-6f41a8e2c913")
	}

	now := time.Now().UTC()
	v := &Video{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create video")
	}
	return v, nil
}

// GetVideo returns a record visible to its owner.
func (s *Service) GetVideo(ctx context.Context, videoID, userID uuid.UUID) (*Video, error) {
	return s.AuthorizeOwner(ctx, videoID, userID)
}

// ListVideos returns every record the user owns.
func (s *Service) ListVideos(ctx context.Context, userID uuid.UUID) ([]*Video, error) {
	videos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list videos")
	}
	return videos, nil
}

// AuthorizeOwner loads the record and checks the caller owns it.
func (s *Service) AuthorizeOwner(ctx context.Context, videoID, userID uuid.UUID) (*Video, error) {
	v, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load video")
	}
	if v.UserID != userID {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"you do not own this video", nil, "5e0d7c4a-81f2-4b6e-a3c9-2d7f90b1e846",
			map[string]any{"video_id": videoID.String(), "user_id": userID.String()})
	}
	return v, nil
}

// UploadVideo validates, probes and persists an MP4 upload, then points the
// record's video URL at it.
func (s *Service) UploadVideo(ctx context.Context, videoID, userID uuid.UUID, upload Upload) (*Video, error) {
	ctx, span := s.tracer.Start(ctx, "video.UploadVideo",
		trace.WithAttributes(attribute.String("video.id", videoID.String())))
	defer span.End()

	v, err := s.uploadVideo(ctx, videoID, userID, upload)
	if err != nil {
		metrics.RecordUpload(string(AssetKindVideo), "failure", 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload video")
		return nil, err
	}
	return v, nil
}

func (s *Service) uploadVideo(ctx context.Context, videoID, userID uuid.UUID, upload Upload) (*Video, error) {
	record, err := s.AuthorizeOwner(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	mediaType, _, err := validateUpload(ctx, upload, s.cfg.MaxVideoBytes, videoMIMEs)
	if err != nil {
		return nil, err
	}

	scratch, err := newScratchFile(s.cfg.ScratchDir, "tubely-upload-*.mp4", s.log)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"could not buffer upload", err, "b7a2e915-0f3c-4d68-8e1a-94c6d5f2a370")
	}
	defer scratch.Release()

	written, sum, err := scratch.Fill(upload.Body, s.cfg.MaxVideoBytes)
	if errors.Is(err, errUploadTooLarge) {
		return nil, tooLargeError(ctx, s.cfg.MaxVideoBytes)
	}
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"could not buffer upload", err, "2f81c6d0-7b4e-4a95-b3f2-c80e61d4a7b5")
	}

	geometry, err := s.probe(ctx, scratch.Path())
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"could not read video metadata", err, "8d4f1e2a-6c3b-47d9-a0e5-13b7f9c2d846")
	}
	orientation := geometry.Orientation()

	key, err := NewVideoKey(orientation)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"could not generate storage key", err, "4a9c2b7e-1d5f-4e83-9b60-7f2e8c1d0a35")
	}

	detected := ""
	if mt, err := mimetype.DetectFile(scratch.Path()); err == nil {
		detected = mt.String()
	}

	body, err := scratch.Reader()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"could not read buffered upload", err, "c3e81f5d-92a4-4b07-8d6c-5a1f0e7b2d49")
	}

	url, err := s.put(ctx, s.stores.Videos, key, body, written, mediaType)
	if err != nil {
		return nil, err
	}

	record.VideoURL = &url
	if err := s.commit(ctx, record, s.stores.Videos, key); err != nil {
		return nil, err
	}

	s.recordAsset(ctx, &Asset{
		VideoID:         record.ID,
		Kind:            AssetKindVideo,
		StorageProvider: s.stores.Videos.Provider(),
		StorageKey:      key,
		URL:             url,
		DeclaredMIME:    mediaType,
		DetectedMIME:    detected,
		Bytes:           written,
		Sha256:          sum,
		Orientation:     string(orientation),
		CreatedBy:       userID,
	})
	metrics.RecordUpload(string(AssetKindVideo), "success", written)
	metrics.RecordOrientation(string(orientation))

	s.log.Info().
		Str("video_id", record.ID.String()).
		Str("key", key).
		Str("orientation", string(orientation)).
		Int("width", geometry.Width).
		Int("height", geometry.Height).
		Int64("bytes", written).
		Msg("video uploaded")

	return record, nil
}

// UploadThumbnail stores an image for the record, either in an asset store or
// in the in-process registry, then points the record's thumbnail URL at it.
func (s *Service) UploadThumbnail(ctx context.Context, videoID, userID uuid.UUID, upload Upload) (*Video, error) {
	ctx, span := s.tracer.Start(ctx, "video.UploadThumbnail",
		trace.WithAttributes(attribute.String("video.id", videoID.String())))
	defer span.End()

	v, err := s.uploadThumbnail(ctx, videoID, userID, upload)
	if err != nil {
		metrics.RecordUpload(string(AssetKindThumbnail), "failure", 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload thumbnail")
		return nil, err
	}
	return v, nil
}

func (s *Service) uploadThumbnail(ctx context.Context, videoID, userID uuid.UUID, upload Upload) (*Video, error) {
	record, err := s.AuthorizeOwner(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	mediaType, ext, err := validateUpload(ctx, upload, s.cfg.MaxThumbnailBytes, s.thumbnailMIMEs())
	if err != nil {
		return nil, err
	}

	// Thumbnails need no probing, so they skip the scratch file.
	data, err := io.ReadAll(io.LimitReader(upload.Body, s.cfg.MaxThumbnailBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"could not read thumbnail", err, "e6b3d0a9-5c27-4f18-a4d1-0b9e7c3f2a68")
	}
	if int64(len(data)) > s.cfg.MaxThumbnailBytes {
		return nil, tooLargeError(ctx, s.cfg.MaxThumbnailBytes)
	}
	digest := sha256.Sum256(data)

	var (
		url      string
		key      string
		provider string
		store    AssetStore
	)
	if s.cfg.UsesThumbnailRegistry() {
		s.registry.Put(record.ID, Thumbnail{Data: data, ContentType: mediaType})
		key = record.ID.String()
		provider = "memory"
		url = fmt.Sprintf("%s/thumbnails/%s", s.cfg.PublicBaseURL(), record.ID)
	} else {
		key, err = NewThumbnailKey(ext)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
				"could not generate storage key", err, "91f0c7e2-3b6d-4a58-8c14-d2e5a7b0f369")
		}
		store = s.stores.Thumbnails
		provider = store.Provider()
		url, err = s.put(ctx, store, key, bytes.NewReader(data), int64(len(data)), mediaType)
		if err != nil {
			return nil, err
		}
	}

	record.ThumbnailURL = &url
	if err := s.commit(ctx, record, store, key); err != nil {
		return nil, err
	}

	s.recordAsset(ctx, &Asset{
		VideoID:         record.ID,
		Kind:            AssetKindThumbnail,
		StorageProvider: provider,
		StorageKey:      key,
		URL:             url,
		DeclaredMIME:    mediaType,
		DetectedMIME:    mimetype.Detect(data).String(),
		Bytes:           int64(len(data)),
		Sha256:          hex.EncodeToString(digest[:]),
		CreatedBy:       userID,
	})
	metrics.RecordUpload(string(AssetKindThumbnail), "success", int64(len(data)))

	s.log.Info().
		Str("video_id", record.ID.String()).
		Str("key", key).
		Str("provider", provider).
		Int("bytes", len(data)).
		Msg("thumbnail uploaded")

	return record, nil
}

// GetThumbnail returns the registry entry for a video.
func (s *Service) GetThumbnail(ctx context.Context, videoID uuid.UUID) (Thumbnail, error) {
	if _, err := s.repo.GetByID(ctx, videoID); err != nil {
		return Thumbnail{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load video")
	}
	if s.registry == nil {
		return Thumbnail{}, thumbnailNotFound(ctx, videoID, nil)
	}
	thumbnail, err := s.registry.Get(videoID)
	if err != nil {
		return Thumbnail{}, thumbnailNotFound(ctx, videoID, err)
	}
	return thumbnail, nil
}

// ListAssets returns the ledger entries of a video the caller owns.
func (s *Service) ListAssets(ctx context.Context, videoID, userID uuid.UUID) ([]*Asset, error) {
	if _, err := s.AuthorizeOwner(ctx, videoID, userID); err != nil {
		return nil, err
	}
	assets, err := s.ledger.ListByVideo(ctx, videoID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list assets")
	}
	return assets, nil
}

func (s *Service) thumbnailMIMEs() map[string]string {
	if s.cfg.UsesThumbnailRegistry() {
		return registryThumbnailMIMEs
	}
	return thumbnailMIMEs
}

func (s *Service) probe(ctx context.Context, path string) (StreamGeometry, error) {
	ctx, span := s.tracer.Start(ctx, "video.Probe")
	defer span.End()

	start := time.Now()
	geometry, err := s.prober.Probe(ctx, path)
	status := "success"
	if err != nil {
		status = "failure"
		span.RecordError(err)
	}
	metrics.RecordProbe(status, time.Since(start).Seconds())
	return geometry, err
}

// put transfers body under key with the configured storage timeout.
func (s *Service) put(ctx context.Context, store AssetStore, key string, body io.Reader, size int64, contentType string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "video.PutAsset",
		trace.WithAttributes(attribute.String("storage.provider", store.Provider()), attribute.String("storage.key", key)))
	defer span.End()

	if s.cfg.StorageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.StorageTimeout)
		defer cancel()
	}

	start := time.Now()
	url, err := store.Put(ctx, key, body, size, contentType)
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordStorageOperation(store.Provider(), "put", status, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		return "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"could not store asset", fmt.Errorf("%w: %w", ErrStorageFailure, err), "6d2a9f4c-e0b8-4135-97c2-f1a3d8e5b704",
			map[string]any{"storage_key": key, "provider": store.Provider()})
	}
	return url, nil
}

// commit writes the record back. When that fails the freshly stored asset is
// deleted so it does not linger without a record pointing at it.
func (s *Service) commit(ctx context.Context, record *Video, store AssetStore, key string) error {
	record.UpdatedAt = time.Now().UTC()
	err := s.repo.Update(ctx, record)
	if err == nil {
		return nil
	}

	if store != nil {
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if delErr := store.Delete(cleanupCtx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("delete orphaned asset")
		}
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update video")
}

func (s *Service) recordAsset(ctx context.Context, asset *Asset) {
	if s.ledger == nil {
		return
	}
	asset.ID = assetid.New()
	asset.CreatedAt = time.Now().UTC()
	if err := s.ledger.Record(ctx, asset); err != nil {
		s.log.Warn().Err(err).Str("storage_key", asset.StorageKey).Msg("record asset in ledger")
	}
}

// validateUpload checks the declared size and content type before any bytes
// are buffered. It returns the parsed media type and its file extension.
func validateUpload(ctx context.Context, upload Upload, maxBytes int64, allowed map[string]string) (string, string, error) {
	if upload.Body == nil {
		return "", "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"file is required", nil, "a0d5e3b8-7f21-4c96-b5e4-38c1f9a7d062")
	}
	if upload.Size > maxBytes {
		return "", "", tooLargeError(ctx, maxBytes)
	}
	if upload.Size == 0 {
		return "", "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"file is empty", nil, "f4b1c8e7-2a63-4d09-9e5b-c7a0d3f6e182")
	}

	mediaType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil {
		return "", "", platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid Content-Type", err, "1b7e4d2c-9a05-4f38-a6c1-e5d0b8f3a294")
	}
	ext, ok := allowed[mediaType]
	if !ok {
		return "", "", platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported content type %s", mediaType), nil, "7c3f0a9e-4d18-4b52-8f6d-a2e9c1b5d037",
			map[string]any{"allowed": allowedList(allowed)})
	}
	return mediaType, ext, nil
}

func allowedList(allowed map[string]string) []string {
	out := make([]string, 0, len(allowed))
	for mediaType := range allowed {
		out = append(out, mediaType)
	}
	return out
}

func tooLargeError(ctx context.Context, maxBytes int64) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
		fmt.Sprintf("file exceeds max size of %d bytes", maxBytes), nil, "d9e2a6f1-5b4c-4087-b3a8-6f0c2e7d1b95")
}

func thumbnailNotFound(ctx context.Context, videoID uuid.UUID, err error) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"thumbnail not found", err, "3e8b5c1a-f6d7-4290-a1e4-9b2d7c0f5e63",
		map[string]any{"video_id": videoID.String()})
}
