package video

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var errUploadTooLarge = errors.New("upload exceeds size limit")

// scratchFile is a request-scoped on-disk copy of an upload. The prober needs a
// path, so the upload is fully written and synced before anything reads it.
type scratchFile struct {
	file *os.File
	log  zerolog.Logger
}

func newScratchFile(dir, pattern string, log zerolog.Logger) (*scratchFile, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}
	return &scratchFile{file: file, log: log}, nil
}

func (s *scratchFile) Path() string {
	return s.file.Name()
}

// Fill copies at most limit bytes from body and flushes them to disk.
// It returns errUploadTooLarge as soon as the stream runs past limit.
func (s *scratchFile) Fill(body io.Reader, limit int64) (int64, string, error) {
	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(s.file, hasher), io.LimitReader(body, limit+1))
	if err != nil {
		return written, "", fmt.Errorf("write scratch file: %w", err)
	}
	if written > limit {
		return written, "", errUploadTooLarge
	}
	if err := s.file.Sync(); err != nil {
		return written, "", fmt.Errorf("sync scratch file: %w", err)
	}
	return written, hex.EncodeToString(hasher.Sum(nil)), nil
}

// Reader rewinds the file and returns it for a backend transfer.
func (s *scratchFile) Reader() (io.Reader, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind scratch file: %w", err)
	}
	return s.file, nil
}

// Release closes and removes the file. Failures are logged, never returned.
func (s *scratchFile) Release() {
	path := s.file.Name()
	if err := s.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.log.Warn().Err(err).Str("path", path).Msg("close scratch file")
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("path", path).Msg("remove scratch file")
	}
}
