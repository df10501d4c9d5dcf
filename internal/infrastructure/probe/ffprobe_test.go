package probe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
)

func TestParseGeometry(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    video.StreamGeometry
		wantErr error
	}{
		{"landscape", `{"programs":[],"streams":[{"width":1920,"height":1080}]}`, video.StreamGeometry{Width: 1920, Height: 1080}, nil},
		{"first stream wins", `{"streams":[{"width":720,"height":1280},{"width":1,"height":1}]}`, video.StreamGeometry{Width: 720, Height: 1280}, nil},
		{"no streams", `{"streams":[]}`, video.StreamGeometry{}, video.ErrMetadataUnavailable},
		{"zero height", `{"streams":[{"width":1920,"height":0}]}`, video.StreamGeometry{}, video.ErrMetadataUnavailable},
		{"garbage", `not json`, video.StreamGeometry{}, video.ErrMetadataUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGeometry([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// fakeFFProbe writes an executable script standing in for ffprobe.
func fakeFFProbe(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newProber(path string, timeout time.Duration) *FFProbe {
	return NewFFProbe(&config.Config{FFProbePath: path, ProbeTimeout: timeout}, zerolog.Nop())
}

func TestProbe_Success(t *testing.T) {
	script := fakeFFProbe(t, `echo '{"streams":[{"width":1080,"height":1920}]}'`)

	got, err := newProber(script, 5*time.Second).Probe(context.Background(), "/tmp/clip.mp4")

	require.NoError(t, err)
	assert.Equal(t, video.StreamGeometry{Width: 1080, Height: 1920}, got)
	assert.Equal(t, video.OrientationPortrait, got.Orientation())
}

func TestProbe_NonZeroExit(t *testing.T) {
	script := fakeFFProbe(t, `echo "moov atom not found" >&2; exit 1`)

	_, err := newProber(script, 5*time.Second).Probe(context.Background(), "/tmp/clip.mp4")

	require.Error(t, err)
	assert.ErrorIs(t, err, video.ErrProbeFailed)
	assert.Contains(t, err.Error(), "moov atom not found")
}

func TestProbe_Timeout(t *testing.T) {
	script := fakeFFProbe(t, `exec sleep 5`)

	_, err := newProber(script, 50*time.Millisecond).Probe(context.Background(), "/tmp/clip.mp4")

	assert.ErrorIs(t, err, video.ErrProbeFailed)
}

func TestProbe_MissingBinary(t *testing.T) {
	_, err := newProber(filepath.Join(t.TempDir(), "nope"), time.Second).Probe(context.Background(), "/tmp/clip.mp4")

	assert.ErrorIs(t, err, video.ErrProbeFailed)
}

func TestProbe_WaitsForSlot(t *testing.T) {
	p := newProber(filepath.Join(t.TempDir(), "unused"), time.Second)
	require.NoError(t, p.slots.Acquire(context.Background(), 1))
	defer p.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Probe(ctx, "/tmp/clip.mp4")

	assert.ErrorIs(t, err, video.ErrProbeFailed)
	assert.Contains(t, err.Error(), "probe slot")
}
