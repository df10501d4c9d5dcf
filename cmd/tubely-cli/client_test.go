package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UploadSendsDeclaredContentType(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		file, header, err := r.FormFile("thumbnail")
		require.NoError(t, err)
		defer file.Close()
		gotType = header.Header.Get("Content-Type")
		data, _ := io.ReadAll(file)
		gotBody = string(data)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", 5*time.Second)
	raw, err := client.Upload(context.Background(), "thumbnail", "abc", "cover.png", "", strings.NewReader("pngdata"))

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(raw))
	assert.Equal(t, "/thumbnails/abc/upload", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "pngdata", gotBody)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"you do not own this video","type":"forbidden_error","request_id":"r-1"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "tok", 5*time.Second).GetVideo(context.Background(), "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "you do not own this video")
	assert.Contains(t, err.Error(), "status 403")
}

func TestClient_UnknownExtension(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", "", time.Second).
		Upload(context.Background(), "video", "abc", "clip.unknownext", "", strings.NewReader("x"))
	assert.ErrorContains(t, err, "cannot infer content type")
}
