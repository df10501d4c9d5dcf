package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"tubely/upload-api/internal/config"
	"tubely/upload-api/internal/domain/video"
)

// FFProbe reads stream geometry by running the ffprobe binary.
type FFProbe struct {
	path    string
	timeout time.Duration
	slots   *semaphore.Weighted
	log     zerolog.Logger
}

// NewFFProbe creates a prober from config.
func NewFFProbe(cfg *config.Config, log zerolog.Logger) *FFProbe {
	path := cfg.FFProbePath
	if strings.TrimSpace(path) == "" {
		path = "ffprobe"
	}
	return &FFProbe{
		path:    path,
		timeout: cfg.ProbeTimeout,
		slots:   semaphore.NewWeighted(max(cfg.MaxConcurrentProbes, 1)),
		log:     log.With().Str("component", "ffprobe").Logger(),
	}
}

type probeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
}

// Probe returns the width and height of the first video stream in the file.
// At most MaxConcurrentProbes processes run at once; callers wait for a slot
// until their context is done.
func (p *FFProbe) Probe(ctx context.Context, path string) (video.StreamGeometry, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return video.StreamGeometry{}, fmt.Errorf("%w: waiting for probe slot: %v", video.ErrProbeFailed, err)
	}
	defer p.slots.Release(1)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.path,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-print_format", "json",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return video.StreamGeometry{}, fmt.Errorf("%w: timed out after %s", video.ErrProbeFailed, p.timeout)
		}
		p.log.Debug().Err(err).Str("stderr", stderr.String()).Msg("ffprobe exited with error")
		return video.StreamGeometry{}, fmt.Errorf("%w: %v: %s", video.ErrProbeFailed, err, strings.TrimSpace(stderr.String()))
	}

	return parseGeometry(stdout.Bytes())
}

func parseGeometry(raw []byte) (video.StreamGeometry, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return video.StreamGeometry{}, fmt.Errorf("%w: decode ffprobe output: %v", video.ErrMetadataUnavailable, err)
	}
	if len(out.Streams) == 0 {
		return video.StreamGeometry{}, fmt.Errorf("%w: no video stream", video.ErrMetadataUnavailable)
	}

	stream := out.Streams[0]
	if stream.Width <= 0 || stream.Height <= 0 {
		return video.StreamGeometry{}, fmt.Errorf("%w: invalid dimensions %dx%d", video.ErrMetadataUnavailable, stream.Width, stream.Height)
	}
	return video.StreamGeometry{Width: stream.Width, Height: stream.Height}, nil
}
