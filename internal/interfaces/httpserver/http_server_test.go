package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
	"tubely/upload-api/internal/infrastructure/auth"
	assetrepo "tubely/upload-api/internal/infrastructure/repository/asset"
	videorepo "tubely/upload-api/internal/infrastructure/repository/video"
	"tubely/upload-api/internal/infrastructure/storage"
	"tubely/upload-api/internal/infrastructure/store"
	"tubely/upload-api/internal/utils/platformerrors"
)

const testSecret = "http-test-secret"

type stubProber struct {
	geometry video.StreamGeometry
	calls    atomic.Int32
}

func (p *stubProber) Probe(ctx context.Context, path string) (video.StreamGeometry, error) {
	p.calls.Add(1)
	return p.geometry, nil
}

type harness struct {
	t       *testing.T
	handler http.Handler
	repo    *videorepo.InMemoryRepository
	prober  *stubProber
}

func newHarness(t *testing.T, mode string) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:         "tubely-upload-api",
		Environment:         "test",
		HTTPPort:            8091,
		JWTSecret:           testSecret,
		AuthIssuer:          "tubely-access",
		AssetsRoot:          filepath.Join(t.TempDir(), "assets"),
		LocalStorageBaseURL: "http://localhost:8091/assets",
		ScratchDir:          t.TempDir(),
		MaxVideoBytes:       1 << 20,
		MaxThumbnailBytes:   10 << 20,
		ThumbnailMode:       mode,
		ThumbnailStorage:    "local",
		StorageTimeout:      time.Minute,
		ShutdownTimeout:     time.Second,
	}
	log := zerolog.Nop()

	local, err := storage.NewLocalStorage(cfg, log)
	require.NoError(t, err)
	validator, err := auth.NewValidator(context.Background(), cfg, log)
	require.NoError(t, err)

	repo := videorepo.NewInMemoryRepository()
	prober := &stubProber{geometry: video.StreamGeometry{Width: 1920, Height: 1080}}
	service := video.NewService(cfg, repo, video.Stores{Videos: local, Thumbnails: local}, prober,
		store.NewThumbnailRegistry(log), assetrepo.NewInMemoryRepository(), log)

	server := New(cfg, log, service, validator, HealthChecks{"local": local})
	return &harness{t: t, handler: server.Handler(), repo: repo, prober: prober}
}

func (h *harness) token(userID uuid.UUID) string {
	token, err := auth.IssueToken(testSecret, "tubely-access", userID, time.Hour)
	require.NoError(h.t, err)
	return token
}

func (h *harness) seedVideo(owner uuid.UUID) uuid.UUID {
	v := &video.Video{ID: uuid.New(), UserID: owner, Title: "clip", Version: 1, CreatedAt: time.Now()}
	require.NoError(h.t, h.repo.Create(context.Background(), v))
	return v.ID
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h *harness) upload(path, field, contentType string, data []byte, userID uuid.UUID) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="upload.bin"`, field))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(h.t, err)
	_, err = part.Write(data)
	require.NoError(h.t, err)
	require.NoError(h.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if userID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+h.token(userID))
	}
	return h.do(req)
}

func (h *harness) stored(id uuid.UUID) *video.Video {
	v, err := h.repo.GetByID(context.Background(), id)
	require.NoError(h.t, err)
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) platformerrors.HTTPErrorDetail {
	t.Helper()
	var resp platformerrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestCoreRoutes(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)

	for _, path := range []string{"/", "/healthz", "/readyz", "/health/auth", "/metrics"} {
		w := h.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUploadVideo_Landscape(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner := uuid.New()
	id := h.seedVideo(owner)

	w := h.upload("/videos/"+id.String()+"/upload", "video", "video/mp4", []byte("fake mp4 payload"), owner)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got video.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.VideoURL)
	assert.Contains(t, *got.VideoURL, "http://localhost:8091/assets/landscape/")
	assert.Equal(t, *got.VideoURL, *h.stored(id).VideoURL)
}

func TestUploadVideo_StrangerForbiddenBeforeProbe(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner, stranger := uuid.New(), uuid.New()
	id := h.seedVideo(owner)

	w := h.upload("/videos/"+id.String()+"/upload", "video", "video/mp4", []byte("payload"), stranger)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden_error", decodeError(t, w).Type)
	assert.Zero(t, h.prober.calls.Load())
	assert.Nil(t, h.stored(id).VideoURL)
}

func TestUploadVideo_WrongTypeNotProbed(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner := uuid.New()
	id := h.seedVideo(owner)

	w := h.upload("/videos/"+id.String()+"/upload", "video", "video/webm", []byte("payload"), owner)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.prober.calls.Load())
}

func TestUploadVideo_AuthAndTargetErrors(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner := uuid.New()
	id := h.seedVideo(owner)

	w := h.upload("/videos/"+id.String()+"/upload", "video", "video/mp4", []byte("payload"), uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.upload("/videos/not-a-uuid/upload", "video", "video/mp4", []byte("payload"), owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.upload("/videos/"+uuid.NewString()+"/upload", "video", "video/mp4", []byte("payload"), owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decodeError(t, w).RequestID)

	w = h.upload("/videos/"+id.String()+"/upload", "file", "video/mp4", []byte("payload"), owner)
	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong field name")
}

func TestUploadThumbnail_TwoOwners(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner, stranger := uuid.New(), uuid.New()
	id := h.seedVideo(owner)

	w := h.upload("/thumbnails/"+id.String()+"/upload", "thumbnail", "image/png", []byte("\x89PNG\r\n\x1a\nowner"), owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := *h.stored(id).ThumbnailURL

	w = h.upload("/thumbnails/"+id.String()+"/upload", "thumbnail", "image/png", []byte("\x89PNG\r\n\x1a\nstranger"), stranger)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, first, *h.stored(id).ThumbnailURL)
}

func TestUploadThumbnail_TooLarge(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner := uuid.New()
	id := h.seedVideo(owner)

	w := h.upload("/thumbnails/"+id.String()+"/upload", "thumbnail", "image/png", make([]byte, 11<<20), owner)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	stored := h.stored(id)
	assert.Nil(t, stored.ThumbnailURL)
	assert.Equal(t, int64(1), stored.Version)
}

func TestThumbnailRegistryRoutes(t *testing.T) {
	t.Run("not registered in store mode", func(t *testing.T) {
		h := newHarness(t, config.ThumbnailModeStore)
		w := h.do(httptest.NewRequest(http.MethodGet, "/thumbnails/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("registry round trip", func(t *testing.T) {
		h := newHarness(t, config.ThumbnailModeRegistry)
		owner := uuid.New()
		id := h.seedVideo(owner)

		w := h.do(httptest.NewRequest(http.MethodGet, "/thumbnails/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "unknown video")

		w = h.do(httptest.NewRequest(http.MethodGet, "/thumbnails/"+id.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "no thumbnail yet")

		gif := []byte("GIF89a-thumbnail")
		w = h.upload("/thumbnails/"+id.String()+"/upload", "thumbnail", "image/gif", gif, owner)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "http://localhost:8091/thumbnails/"+id.String(), *h.stored(id).ThumbnailURL)

		w = h.do(httptest.NewRequest(http.MethodGet, "/thumbnails/"+id.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, gif, w.Body.Bytes())
	})
}

func TestVideoRecordRoutes(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)
	owner := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/videos", bytes.NewBufferString(`{"title":"Boots","description":"new pair"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token(owner))
	w := h.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created video.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, owner, created.UserID)

	req = httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", "Bearer "+h.token(owner))
	w = h.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID.String())

	req = httptest.NewRequest(http.MethodGet, "/videos/"+created.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+h.token(uuid.New()))
	w = h.do(req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.upload("/thumbnails/"+created.ID.String()+"/upload", "thumbnail", "image/jpeg", []byte("\xff\xd8\xff\xe0jpeg"), owner)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/videos/"+created.ID.String()+"/assets", nil)
	req.Header.Set("Authorization", "Bearer "+h.token(owner))
	w = h.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	var assets struct {
		Data []video.Asset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assets))
	require.Len(t, assets.Data, 1)
	assert.Equal(t, video.AssetKindThumbnail, assets.Data[0].Kind)
	assert.Equal(t, "image/jpeg", assets.Data[0].DetectedMIME)
}

func TestCreateVideo_ValidatesBody(t *testing.T) {
	h := newHarness(t, config.ThumbnailModeStore)

	req := httptest.NewRequest(http.MethodPost, "/videos", bytes.NewBufferString(`{"description":"no title"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token(uuid.New()))
	w := h.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title failed on required")
}
